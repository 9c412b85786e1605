package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records identity events. Callers treat it as best-effort: a
// failed audit write is logged upstream, never propagated into the flow
// being audited.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogSession records a signin/signup/signout style event for one account.
func (s *Service) LogSession(ctx context.Context, typ EventType, actorUID, actorRole, ip string) error {
	return s.Append(ctx, Event{
		Type:      typ,
		ActorUID:  actorUID,
		ActorRole: actorRole,
		IPAddress: ip,
	})
}

// LogMembership records a school-membership change.
func (s *Service) LogMembership(ctx context.Context, typ EventType, actorUID, targetUID, schoolID, ip string) error {
	return s.Append(ctx, Event{
		Type:      typ,
		ActorUID:  actorUID,
		TargetUID: targetUID,
		SchoolID:  schoolID,
		IPAddress: ip,
	})
}
