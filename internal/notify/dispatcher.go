// Package notify holds the outbound side of the system: the notification
// dispatcher the reminder engine talks to, and the conversation-state
// store the chat flow reads after a reminder fires.
package notify

import "context"

// Button is one tappable option in an interactive markup.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// ReplyMarkup is an optional interactive keyboard attached to a message.
type ReplyMarkup struct {
	Buttons [][]Button
}

// Dispatcher delivers a message to a chat target. Delivery is
// best-effort; the reminder engine logs and drops errors.
type Dispatcher interface {
	Send(ctx context.Context, chatID int64, text string, markup *ReplyMarkup) error
}

// LogDispatcher is a Dispatcher that only logs, used when no bot token is
// configured.
type LogDispatcher struct {
	Log func(message string, fields ...interface{})
}

func (d *LogDispatcher) Send(_ context.Context, chatID int64, text string, _ *ReplyMarkup) error {
	if d.Log != nil {
		d.Log("notification (dry run)", "chat_id", chatID, "text", text)
	}
	return nil
}
