package reminders

import (
	"context"
	"sync"
	"time"

	"colloquium/backstage/internal/logging"
)

const notifyTimeout = time.Minute

// Scheduler owns the timer-based job table. Jobs are keyed by a
// reminder's deterministic ids, so cancellation needs nothing beyond the
// reminder that was scheduled. Re-adding an identity that is still
// pending overwrites the table entry without stopping the earlier timer;
// callers are expected to RemoveRemind first.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	env    *Env
}

func NewScheduler(env *Env) *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
		env:    env,
	}
}

// AddRemind registers one timer per (job id, fire time) pair. Fire times
// already in the past are skipped.
func (s *Scheduler) AddRemind(r Reminder) {
	ids := r.JobIDs()
	times := r.FireTimes()

	for i, id := range ids {
		delay := time.Until(times[i])
		if delay <= 0 {
			logging.Debug("skipping reminder job, fire time already passed",
				"job_id", id, "fire_time", times[i])
			if s.env.Metrics != nil {
				s.env.Metrics.RemindersSkipped.WithLabelValues(r.Kind()).Inc()
			}
			continue
		}

		jobID := id
		s.mu.Lock()
		s.timers[jobID] = time.AfterFunc(delay, func() {
			s.fire(jobID, r)
		})
		s.mu.Unlock()

		logging.Debug("scheduled reminder job", "job_id", jobID, "fire_time", times[i])
		if s.env.Metrics != nil {
			s.env.Metrics.RemindersScheduled.WithLabelValues(r.Kind()).Inc()
		}
	}
}

// RemoveRemind cancels every pending job under the reminder's identity.
// Ids that are not pending, because they already fired or were never
// scheduled, are silently ignored.
func (s *Scheduler) RemoveRemind(r Reminder) {
	for _, id := range r.JobIDs() {
		s.mu.Lock()
		timer, ok := s.timers[id]
		if ok {
			timer.Stop()
			delete(s.timers, id)
		}
		s.mu.Unlock()

		if ok {
			logging.Debug("cancelled reminder job", "job_id", id)
			if s.env.Metrics != nil {
				s.env.Metrics.RemindersCancelled.WithLabelValues(r.Kind()).Inc()
			}
		}
	}
}

// Pending reports the number of jobs waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending job. Used at shutdown; in-flight
// notifications are not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(jobID string, r Reminder) {
	s.mu.Lock()
	delete(s.timers, jobID)
	s.mu.Unlock()

	if s.env.Metrics != nil {
		s.env.Metrics.RemindersFired.WithLabelValues(r.Kind()).Inc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := r.Notify(ctx, s.env); err != nil {
		// Fire-and-forget: dispatch failures are logged, never surfaced.
		logging.Error("reminder notification failed", "job_id", jobID, "error", err.Error())
	}
}
