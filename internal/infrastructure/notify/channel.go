package notify

import "context"

// Message is a mail to be delivered to the sales team
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Channel delivers messages over a concrete transport
type Channel interface {
	Send(ctx context.Context, msg Message) error
}
