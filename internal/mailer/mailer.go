// Package mailer delivers the transactional emails of the onboarding flow.
// Delivery is fire-and-forget: a state transition never waits on, or rolls
// back for, a failed email.
package mailer

import "context"

// Message is one outbound email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

// Mailer is the notifier collaborator. Send must not block the caller beyond
// queueing and must swallow (but log) delivery failures. Ping is the explicit
// startup connectivity check, called once during service initialization
// instead of any import-time side effect.
type Mailer interface {
	Send(ctx context.Context, msg Message)
	Ping(ctx context.Context) error
}
