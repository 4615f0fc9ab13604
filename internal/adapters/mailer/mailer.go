package mailer

import (
	"context"

	gomail "gopkg.in/gomail.v2"
)

// SMTP sends plain-text confirmation mail over a STARTTLS SMTP account.
type SMTP struct {
	from string
	d    *gomail.Dialer
}

func New(host string, port int, from, password string) *SMTP {
	return &SMTP{from: from, d: gomail.NewDialer(host, port, from, password)}
}

func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	// gomail has no context plumbing; honor cancellation before dialing
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.d.DialAndSend(m)
}
