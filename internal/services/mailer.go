package services

import "context"

// Mailer delivers outbound email. Delivery itself is an external
// concern; the verification flow only needs something to hand the
// message to.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// LogMailer is a Mailer that only logs, used when no SMTP relay is
// configured.
type LogMailer struct {
	Log func(message string, fields ...interface{})
}

func (m *LogMailer) SendMail(_ context.Context, to, subject, _ string) error {
	if m.Log != nil {
		m.Log("outbound mail (dry run)", "to", to, "subject", subject)
	}
	return nil
}
