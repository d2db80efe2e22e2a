package notify

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/infrastructure/config"
	"gopkg.in/gomail.v2"
)

// SMTPChannel delivers messages directly through an SMTP relay
type SMTPChannel struct {
	dialer *gomail.Dialer
}

// NewSMTPChannel creates an SMTP-backed channel
func NewSMTPChannel(cfg *config.SMTPConfig) *SMTPChannel {
	return &SMTPChannel{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send delivers the message. gomail has no context support, so the send
// runs in a goroutine and the caller's deadline is enforced here.
func (c *SMTPChannel) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	done := make(chan error, 1)
	go func() {
		done <- c.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Channel = (*SMTPChannel)(nil)
