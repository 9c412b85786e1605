package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"exploranotes/internal/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sgHost         = "https://api.sendgrid.com"
	sgSendEndpoint = "/v3/mail/send"
	sgPingEndpoint = "/v3/scopes"
)

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	key  string
	from *sgmail.Email
	log  *slog.Logger
}

var _ Mailer = (*SendGridMailer)(nil)

func NewSendGridMailer(cfg config.MailConfig, log *slog.Logger) (*SendGridMailer, error) {
	if cfg.SendGridKey == "" {
		return nil, errors.New("mailer: sendgrid api key is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("mailer: from address is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SendGridMailer{
		key:  cfg.SendGridKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		log:  log,
	}, nil
}

// Send queues the message on a goroutine and returns immediately.
// Delivery errors are logged, never returned: the caller's state transition
// has already committed.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) {
	go func() {
		req := sendgrid.GetRequest(m.key, sgSendEndpoint, sgHost)
		req.Method = http.MethodPost
		req.Body = sgmail.GetRequestBody(m.build(msg))

		res, err := sendgrid.API(req)
		if err != nil {
			m.log.Error("email delivery failed", "to", msg.ToEmail, "subject", msg.Subject, "err", err)
			return
		}
		if res.StatusCode >= http.StatusBadRequest {
			m.log.Error("email delivery rejected", "to", msg.ToEmail, "subject", msg.Subject, "status", res.StatusCode)
			return
		}
		m.log.Info("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	}()
}

// Ping checks API reachability and key validity with a lightweight read.
func (m *SendGridMailer) Ping(ctx context.Context) error {
	req := sendgrid.GetRequest(m.key, sgPingEndpoint, sgHost)
	req.Method = http.MethodGet

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("mailer: sendgrid ping failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("mailer: sendgrid ping rejected with status %d", res.StatusCode)
	}
	return nil
}

func (m *SendGridMailer) build(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	out := sgmail.NewV3Mail()
	out.SetFrom(m.from)
	out.AddPersonalizations(p)
	out.AddContent(sgmail.NewContent("text/html", msg.HTML))
	return out
}
