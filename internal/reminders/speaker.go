package reminders

import (
	"context"
	"fmt"
	"time"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/notify"
	"colloquium/backstage/internal/repository"
)

// Speakers are nudged three times, so each offset gets its own job id
// under a shared identity prefix.
var speakerOffsets = []time.Duration{
	24 * time.Hour,
	3 * time.Hour,
	15 * time.Minute,
}

// SpeakerReminder prompts a speaker for their location before their talk.
// The speaker's chat id is resolved from the user repository at fire
// time, not at scheduling time; the speaker may have linked or changed
// their chat in between.
type SpeakerReminder struct {
	Email string
	Event entities.Event
}

func NewSpeakerReminder(email string, event entities.Event) (*SpeakerReminder, error) {
	if email == "" {
		return nil, &InvalidIdentityError{Field: "email"}
	}
	return &SpeakerReminder{Email: email, Event: event}, nil
}

func (s *SpeakerReminder) Kind() string { return "speaker" }

func (s *SpeakerReminder) JobIDs() []string {
	ids := make([]string, len(speakerOffsets))
	for i := range speakerOffsets {
		ids[i] = fmt.Sprintf("%s_%s_%d", s.Email, s.Event.Key, i)
	}
	return ids
}

func (s *SpeakerReminder) FireTimes() []time.Time {
	times := make([]time.Time, len(speakerOffsets))
	for i, offset := range speakerOffsets {
		times[i] = s.Event.StartTime.Add(-offset)
	}
	return times
}

func (s *SpeakerReminder) Notify(ctx context.Context, env *Env) error {
	user, err := env.Users.GetOne(ctx, repository.UserFilter{UID: repository.Value(s.Email)})
	if err != nil {
		return err
	}
	if user == nil || user.TgChatID == nil {
		logging.Debug("no chat id for speaker, skipping reminder", "email", s.Email, "event", s.Event.Key)
		return nil
	}
	chatID := *user.TgChatID

	logging.Debug("sending speaker reminder", "email", s.Email, "chat_id", chatID, "event", s.Event.Key)

	until := untilPhrase(time.Until(s.Event.StartTime))
	if err := env.send(ctx, chatID,
		fmt.Sprintf("%q starts %s.", s.Event.Title, until), nil); err != nil {
		return err
	}
	if err := env.send(ctx, chatID,
		fmt.Sprintf("Will you speak at %q?\nTell us where you are right now, or reply <b>no</b>!",
			s.Event.Title), nil); err != nil {
		return err
	}

	if err := env.States.SetData(ctx, chatID, s.Event); err != nil {
		return err
	}
	return env.States.SetState(ctx, chatID, notify.StateAwaitingSpeakerRSVP)
}
