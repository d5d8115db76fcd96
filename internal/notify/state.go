package notify

import "context"

// Conversation states the reminder engine moves recipients into. The chat
// flow moves them back to idle once it has matched a reply.
const (
	StateIdle                = "idle"
	StateAwaitingGuestRSVP   = "awaiting_guest_rsvp"
	StateAwaitingSpeakerRSVP = "awaiting_speaker_rsvp"
)

// StateStore tracks the conversation state and payload of each chat
// recipient.
type StateStore interface {
	SetState(ctx context.Context, chatID int64, state string) error
	SetData(ctx context.Context, chatID int64, data any) error
	State(ctx context.Context, chatID int64) (string, error)
	Data(ctx context.Context, chatID int64, dest any) error
	Reset(ctx context.Context, chatID int64) error
}
