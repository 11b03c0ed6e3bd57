// Package mail hands account emails (confirmation and password reset links) to a delivery backend.
package mail

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// LogSender writes messages to the log instead of delivering them. It stands in
// for a mail relay in development and on deployments without one.
type LogSender struct {
	from string
	log  *zap.Logger
}

// NewLogSender returns a LogSender that stamps from on every message.
func NewLogSender(from string, log *zap.Logger) *LogSender {
	return &LogSender{from: from, log: log.Named("mail")}
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("email queued",
		zap.String("from", s.from),
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.String("body", m.Body))
	return nil
}

// Recorder keeps every message it is given. Tests use it to read the links sent out.
type Recorder struct {
	Sent []Message
}

func (r *Recorder) Send(_ context.Context, m Message) error {
	r.Sent = append(r.Sent, m)
	return nil
}

// Last returns the most recent message sent to addr.
func (r *Recorder) Last(addr string) (Message, bool) {
	for i := len(r.Sent) - 1; i >= 0; i-- {
		if strings.EqualFold(r.Sent[i].To, addr) {
			return r.Sent[i], true
		}
	}
	return Message{}, false
}
