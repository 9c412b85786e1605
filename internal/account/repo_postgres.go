package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PostgresRepo persists accounts in Postgres via database/sql (pgx stdlib).
//
// Assumed table:
//
//	accounts (
//	  id uuid primary key,
//	  account_type text not null check (account_type in ('teacher', 'student')),
//	  first_name text not null,
//	  last_name text not null,
//	  name text not null,
//	  email text not null unique,
//	  password_hash text not null,
//	  verified_email boolean not null default false,
//	  created_at timestamptz not null
//	)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Create(ctx context.Context, a Account) error {
	const q = `
INSERT INTO accounts (id, account_type, first_name, last_name, name, email, password_hash, verified_email, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.AccountType,
		a.FirstName,
		a.LastName,
		a.Name,
		a.Email,
		a.PasswordHash,
		a.VerifiedEmail,
		a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Account, error) {
	const q = `
SELECT id, account_type, first_name, last_name, name, email, password_hash, verified_email, created_at
FROM accounts
WHERE id = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) FindByEmail(ctx context.Context, email string) (Account, error) {
	const q = `
SELECT id, account_type, first_name, last_name, name, email, password_hash, verified_email, created_at
FROM accounts
WHERE email = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *PostgresRepo) MarkEmailVerified(ctx context.Context, id string) error {
	const q = `
UPDATE accounts
SET verified_email = TRUE
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) scanOne(row *sql.Row) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.AccountType,
		&a.FirstName,
		&a.LastName,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.VerifiedEmail,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return a, nil
}

// isUniqueViolation matches Postgres error 23505 without binding to a driver
// error type at this layer.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
