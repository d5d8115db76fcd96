package reminders

import (
	"context"

	"colloquium/backstage/internal/constants"
	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/repository"
)

// ScheduleExisting rebuilds the job table from stored state after a
// restart: guest and speaker reminders for every RSVP link on a future
// event, plus one moderator summary per future event. The job table
// itself lives in memory only, so this runs once at startup.
func ScheduleExisting(ctx context.Context, s *Scheduler, events *repository.EventRepository) error {
	all, err := events.GetAll(ctx, repository.EventFilter{})
	if err != nil {
		return err
	}

	for _, event := range all {
		links, err := s.env.RSVPs.GetAll(ctx, repository.RSVPFilter{Key: repository.Value(event.Key)})
		if err != nil {
			return err
		}

		for _, link := range links {
			switch link.Role {
			case constants.RoleSpeaker:
				r, err := NewSpeakerReminder(link.UID, event)
				if err != nil {
					logging.Warn("skipping speaker reminder with empty identity", "event", event.Key)
					continue
				}
				s.AddRemind(r)
			case constants.RoleGuest:
				user, err := s.env.Users.GetOne(ctx, repository.UserFilter{UID: repository.Value(link.UID)})
				if err != nil {
					return err
				}
				if user == nil || user.TgChatID == nil {
					continue
				}
				r, err := NewGuestReminder(*user.TgChatID, event)
				if err != nil {
					logging.Warn("skipping guest reminder with empty identity", "event", event.Key)
					continue
				}
				s.AddRemind(r)
			}
		}

		s.AddRemind(NewModeratorReminder(event))
	}
	return nil
}
