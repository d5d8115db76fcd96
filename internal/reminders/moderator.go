package reminders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"colloquium/backstage/internal/constants"
	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/repository"
)

const moderatorOffset = 10 * time.Minute

// ModeratorReminder sends every admin a roll-up of attendee answers
// shortly before the event starts. Its identity derives from the event
// key alone; there is no per-recipient component.
type ModeratorReminder struct {
	Event entities.Event
}

func NewModeratorReminder(event entities.Event) *ModeratorReminder {
	return &ModeratorReminder{Event: event}
}

func (m *ModeratorReminder) Kind() string { return "moderator" }

func (m *ModeratorReminder) JobIDs() []string {
	return []string{"moderators_" + m.Event.Key}
}

func (m *ModeratorReminder) FireTimes() []time.Time {
	return []time.Time{m.Event.StartTime.Add(-moderatorOffset)}
}

func (m *ModeratorReminder) Notify(ctx context.Context, env *Env) error {
	moderators, err := env.Users.GetAll(ctx, repository.UserFilter{IsAdmin: repository.Value(true)})
	if err != nil {
		return err
	}
	links, err := env.RSVPs.GetAll(ctx, repository.RSVPFilter{Key: repository.Value(m.Event.Key)})
	if err != nil {
		return err
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Role != links[j].Role {
			return links[i].Role < links[j].Role
		}
		return links[i].UID < links[j].UID
	})

	lines := make([]string, 0, len(links))
	for _, link := range links {
		user, err := env.Users.GetOne(ctx, repository.UserFilter{UID: repository.Value(link.UID)})
		if err != nil {
			return err
		}
		name := link.UID
		if user != nil {
			name = user.SNP
		}
		part := "guest"
		if link.Role == constants.RoleSpeaker {
			part = "speaker"
		}
		if link.Acknowledgment != nil {
			lines = append(lines, fmt.Sprintf("%s (%s) wrote %q about <b>%q</b>",
				name, part, *link.Acknowledgment, m.Event.Title))
		} else {
			lines = append(lines, fmt.Sprintf("%s (%s) wrote nothing about <b>%q</b>",
				name, part, m.Event.Title))
		}
	}

	for _, moderator := range moderators {
		if moderator.TgChatID == nil {
			logging.Debug("no chat id for moderator, skipping summary", "uid", moderator.UID)
			continue
		}
		chatID := *moderator.TgChatID
		if err := env.send(ctx, chatID, "Answers from all participants:", nil); err != nil {
			return err
		}
		for _, line := range lines {
			if err := env.send(ctx, chatID, line, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
