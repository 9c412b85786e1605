package mailer

import (
	"context"
	"log/slog"
	"sync"
)

// ConsoleMailer logs messages instead of delivering them. Used for local
// development and as a capture point in tests.
type ConsoleMailer struct {
	log *slog.Logger

	mu   sync.Mutex
	sent []Message
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(log *slog.Logger) *ConsoleMailer {
	if log == nil {
		log = slog.Default()
	}
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	m.log.Info("email (console)", "to", msg.ToEmail, "subject", msg.Subject)
}

func (m *ConsoleMailer) Ping(ctx context.Context) error { return nil }

// Sent returns a copy of everything sent so far.
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
