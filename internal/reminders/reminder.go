// Package reminders schedules and delivers time-delayed notifications
// tied to event start times. A Reminder derives a deterministic set of
// job ids from its recipient identity and event key, so a later
// RemoveRemind can cancel exactly the jobs an earlier AddRemind created.
// Notification behavior re-reads live repository state at fire time: chat
// ids and RSVP links may have changed since scheduling.
package reminders

import (
	"context"
	"fmt"
	"time"

	"colloquium/backstage/internal/metrics"
	"colloquium/backstage/internal/notify"
	"colloquium/backstage/internal/repository"
)

// Env carries the collaborators a firing reminder needs. Repositories are
// consulted at fire time, never cached at scheduling time.
type Env struct {
	Users      *repository.UserRepository
	RSVPs      *repository.RSVPRepository
	Dispatcher notify.Dispatcher
	States     notify.StateStore
	Metrics    *metrics.Registry
}

// Reminder is one unit of future notification work. JobIDs and FireTimes
// are parallel slices: JobIDs()[i] fires at FireTimes()[i].
type Reminder interface {
	// Kind names the reminder variant for logs and metrics.
	Kind() string
	// JobIDs returns the deterministic job identities, derived from the
	// recipient identity and the event key.
	JobIDs() []string
	// FireTimes returns the absolute times the jobs run, computed from
	// the event start time.
	FireTimes() []time.Time
	// Notify performs the notification behavior. Failures are logged by
	// the caller and never propagated.
	Notify(ctx context.Context, env *Env) error
}

// InvalidIdentityError signals a reminder constructed with an empty
// identity field. Reminders must always be cancelable by identity, so an
// empty identity is rejected eagerly rather than allowed to produce an
// uncancelable job.
type InvalidIdentityError struct {
	Field string
}

func (e *InvalidIdentityError) Error() string {
	return fmt.Sprintf("reminder identity field %q must not be empty", e.Field)
}

func (env *Env) send(ctx context.Context, chatID int64, text string, markup *notify.ReplyMarkup) error {
	if env.Metrics != nil {
		env.Metrics.NotificationsSent.Inc()
	}
	err := env.Dispatcher.Send(ctx, chatID, text, markup)
	if err != nil && env.Metrics != nil {
		env.Metrics.DispatchFailuresTotal.Inc()
	}
	return err
}
