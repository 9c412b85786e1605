package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials deliberately does not distinguish "no such account"
// from "wrong password".
var ErrInvalidCredentials = errors.New("account: invalid email or password")

// Service owns account lifecycle: signup, credential check, email
// confirmation. Session/token concerns live elsewhere; this layer only deals
// in persisted records.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type SignupParams struct {
	AccountType string
	FirstName   string
	LastName    string
	Email       string
	Password    string
}

// Signup registers a new account with an unverified email.
func (s *Service) Signup(ctx context.Context, p SignupParams) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("account: hash password: %w", err)
	}

	a := Account{
		ID:           uuid.NewString(),
		AccountType:  p.AccountType,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Email:        strings.ToLower(strings.TrimSpace(p.Email)),
		PasswordHash: string(hash),
		CreatedAt:    s.clock().UTC(),
	}
	a.Name = strings.TrimSpace(a.FirstName + " " + a.LastName)

	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Authenticate checks an email/password pair against the stored hash.
// Any failure comes back as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Account, error) {
	a, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// ConfirmEmail marks the account's address verified. The persisted record
// must still exist: a claim alone, however well signed, is not enough.
func (s *Service) ConfirmEmail(ctx context.Context, id string) (Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if !a.VerifiedEmail {
		if err := s.repo.MarkEmailVerified(ctx, a.ID); err != nil {
			return Account{}, err
		}
		a.VerifiedEmail = true
	}
	return a, nil
}

// Get fetches an account by id.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.GetByID(ctx, id)
}
