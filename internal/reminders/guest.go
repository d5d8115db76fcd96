package reminders

import (
	"context"
	"fmt"
	"time"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/notify"
)

const guestOffset = 15 * time.Minute

// GuestReminder asks an attendee to confirm attendance shortly before the
// event starts and parks their conversation in the guest-RSVP state.
type GuestReminder struct {
	ChatID int64
	Event  entities.Event
}

func NewGuestReminder(chatID int64, event entities.Event) (*GuestReminder, error) {
	if chatID == 0 {
		return nil, &InvalidIdentityError{Field: "chat_id"}
	}
	return &GuestReminder{ChatID: chatID, Event: event}, nil
}

func (g *GuestReminder) Kind() string { return "guest" }

func (g *GuestReminder) JobIDs() []string {
	return []string{fmt.Sprintf("%d_%s", g.ChatID, g.Event.Key)}
}

func (g *GuestReminder) FireTimes() []time.Time {
	return []time.Time{g.Event.StartTime.Add(-guestOffset)}
}

func (g *GuestReminder) Notify(ctx context.Context, env *Env) error {
	logging.Debug("sending guest reminder", "chat_id", g.ChatID, "event", g.Event.Key)

	until := untilPhrase(time.Until(g.Event.StartTime))
	if err := env.send(ctx, g.ChatID,
		fmt.Sprintf("%q starts %s.", g.Event.Title, until), nil); err != nil {
		return err
	}
	if err := env.send(ctx, g.ChatID,
		fmt.Sprintf("Will you attend %q?\nReply <b>yes</b> or <b>no</b>!", g.Event.Title), nil); err != nil {
		return err
	}

	if err := env.States.SetData(ctx, g.ChatID, g.Event); err != nil {
		return err
	}
	return env.States.SetState(ctx, g.ChatID, notify.StateAwaitingGuestRSVP)
}
