package account

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("account: not found")
	ErrEmailTaken = errors.New("account: email already registered")
)

// Repository is the persistence contract for accounts.
// Email uniqueness is enforced by the store (unique index in Postgres).
type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	MarkEmailVerified(ctx context.Context, id string) error
}
