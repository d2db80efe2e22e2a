package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/nats-io/nats.go"
)

// NATSChannel hands messages to a NATS subject for a downstream mail worker
type NATSChannel struct {
	conn    *nats.Conn
	subject string
}

// NewNATSChannel connects to the NATS server
func NewNATSChannel(cfg *config.NATSConfig) (*NATSChannel, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("crm-backend"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	return &NATSChannel{conn: conn, subject: cfg.Subject}, nil
}

// Send publishes the message as JSON
func (c *NATSChannel) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding mail message: %w", err)
	}
	if err := c.conn.Publish(c.subject, data); err != nil {
		return fmt.Errorf("publishing mail message: %w", err)
	}
	return nil
}

// Close drains the connection
func (c *NATSChannel) Close() {
	c.conn.Close()
}

var _ Channel = (*NATSChannel)(nil)
