package notifications

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Notifier delivers one message to a list of addresses.
type Notifier interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailNotifier(host string, port int, user, password, from string) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *MailNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
