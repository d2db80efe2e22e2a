package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Mailer notifies the sales team about new customers. Deliveries run behind
// a circuit breaker; when the transport fails or the breaker is open the
// notification is logged instead, and customer creation is never affected.
type Mailer struct {
	channel Channel
	breaker *gobreaker.CircuitBreaker[struct{}]
	from    string
	sales   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewMailer creates a mailer on top of the given channel
func NewMailer(channel Channel, cfg *config.Config, logger *zap.Logger) *Mailer {
	settings := gobreaker.Settings{
		Name:        "mail",
		MaxRequests: cfg.Breaker.HalfOpenProbes,
		Interval:    cfg.Breaker.Window,
		Timeout:     cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.Breaker.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.Breaker.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("mail breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &Mailer{
		channel: channel,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		from:    cfg.Mail.From,
		sales:   cfg.Mail.Sales,
		timeout: cfg.Mail.Timeout,
		logger:  logger,
	}
}

// NotifyCreated sends the "new customer" mail. Failures fall back to a log
// entry so the caller never sees an error.
func (m *Mailer) NotifyCreated(ctx context.Context, c *customer.Customer) {
	msg := Message{
		To:      m.sales,
		From:    m.from,
		Subject: fmt.Sprintf("New customer %s", c.ID),
		Body:    fmt.Sprintf("<b>New customer:</b> <i>%s</i>", c.LastName),
	}

	_, err := m.breaker.Execute(func() (struct{}, error) {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()
		return struct{}{}, m.channel.Send(sendCtx, msg)
	})
	if err != nil {
		m.logger.Error("new customer mail not delivered",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}
