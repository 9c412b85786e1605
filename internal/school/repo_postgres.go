package school

import (
	"context"
	"database/sql"
	"errors"

	"exploranotes/pkg/utils"
)

// PostgresRepo persists schools and memberships via database/sql (pgx stdlib).
//
// Assumed tables:
//
//	schools (
//	  id uuid primary key,
//	  name text not null,
//	  address text not null,
//	  academy text not null,
//	  created_at timestamptz not null
//	)
//
//	school_members (
//	  school_id uuid not null references schools (id),
//	  teacher_id uuid not null references accounts (id),
//	  status text not null check (status in ('confirmed', 'pending')),
//	  admin boolean not null default false,
//	  created_at timestamptz not null default now(),
//	  primary key (teacher_id, status)
//	)
//
// The (teacher_id, status) primary key encodes the model: at most one
// confirmed school and at most one pending join per teacher.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) ListSchools(ctx context.Context) ([]School, error) {
	const q = `
SELECT id, name, address, academy, created_at
FROM schools
ORDER BY name
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []School
	for rows.Next() {
		var s School
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Academy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetSchool(ctx context.Context, id string) (School, error) {
	const q = `
SELECT id, name, address, academy, created_at
FROM schools
WHERE id = $1
`
	var s School
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Address, &s.Academy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return School{}, ErrNotFound
		}
		return School{}, err
	}
	return s, nil
}

func (r *PostgresRepo) CreateSchool(ctx context.Context, s School, founderUID string) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const insertSchool = `
INSERT INTO schools (id, name, address, academy, created_at)
VALUES ($1, $2, $3, $4, $5)
`
		if _, err := tx.ExecContext(ctx, insertSchool, s.ID, s.Name, s.Address, s.Academy, s.CreatedAt); err != nil {
			return err
		}

		// The founder becomes a confirmed admin; any pending join is obsolete.
		const dropPending = `
DELETE FROM school_members
WHERE teacher_id = $1 AND status = 'pending'
`
		if _, err := tx.ExecContext(ctx, dropPending, founderUID); err != nil {
			return err
		}

		const insertMember = `
INSERT INTO school_members (school_id, teacher_id, status, admin)
VALUES ($1, $2, 'confirmed', TRUE)
`
		_, err := tx.ExecContext(ctx, insertMember, s.ID, founderUID)
		return err
	})
}

func (r *PostgresRepo) FetchMembership(ctx context.Context, uid string) (Membership, error) {
	const q = `
SELECT
  COALESCE(MAX(s.id::text)       FILTER (WHERE m.status = 'confirmed'), ''),
  COALESCE(MAX(s.name)           FILTER (WHERE m.status = 'confirmed'), ''),
  COALESCE(BOOL_OR(m.admin)      FILTER (WHERE m.status = 'confirmed'), FALSE),
  COALESCE(MAX(m.school_id::text) FILTER (WHERE m.status = 'pending'), '')
FROM school_members m
JOIN schools s ON s.id = m.school_id
WHERE m.teacher_id = $1
`
	var m Membership
	err := r.db.QueryRowContext(ctx, q, uid).Scan(&m.SchoolID, &m.SchoolName, &m.Admin, &m.PendingSchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Membership{}, nil
		}
		return Membership{}, err
	}
	return m, nil
}

func (r *PostgresRepo) RequestJoin(ctx context.Context, uid, schoolID string) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const checkSchool = `SELECT 1 FROM schools WHERE id = $1`
		var one int
		if err := tx.QueryRowContext(ctx, checkSchool, schoolID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		const upsert = `
INSERT INTO school_members (school_id, teacher_id, status, admin)
VALUES ($1, $2, 'pending', FALSE)
ON CONFLICT (teacher_id, status)
DO UPDATE SET school_id = EXCLUDED.school_id, created_at = now()
`
		_, err := tx.ExecContext(ctx, upsert, schoolID, uid)
		return err
	})
}

func (r *PostgresRepo) AcceptTeacher(ctx context.Context, schoolID, teacherUID string) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const drop = `
DELETE FROM school_members
WHERE teacher_id = $1 AND school_id = $2 AND status = 'pending'
`
		res, err := tx.ExecContext(ctx, drop, teacherUID, schoolID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoPendingRequest
		}

		const confirm = `
INSERT INTO school_members (school_id, teacher_id, status, admin)
VALUES ($1, $2, 'confirmed', FALSE)
ON CONFLICT (teacher_id, status)
DO UPDATE SET school_id = EXCLUDED.school_id, admin = FALSE
`
		_, err = tx.ExecContext(ctx, confirm, schoolID, teacherUID)
		return err
	})
}

func (r *PostgresRepo) Admins(ctx context.Context, schoolID string) ([]Member, error) {
	return r.members(ctx, schoolID, true)
}

func (r *PostgresRepo) Teachers(ctx context.Context, schoolID string) ([]Member, error) {
	return r.members(ctx, schoolID, false)
}

func (r *PostgresRepo) members(ctx context.Context, schoolID string, adminsOnly bool) ([]Member, error) {
	const q = `
SELECT a.id, a.name, a.email, m.admin
FROM school_members m
JOIN accounts a ON a.id = m.teacher_id
WHERE m.school_id = $1 AND m.status = 'confirmed' AND (m.admin OR NOT $2)
ORDER BY a.name
`
	rows, err := r.db.QueryContext(ctx, q, schoolID, adminsOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UID, &m.Name, &m.Email, &m.Admin); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) PendingTeachers(ctx context.Context, schoolID string) ([]PendingTeacher, error) {
	const q = `
SELECT a.id, a.name, a.email, a.created_at
FROM school_members m
JOIN accounts a ON a.id = m.teacher_id
WHERE m.school_id = $1 AND m.status = 'pending' AND a.verified_email
ORDER BY a.created_at
`
	rows, err := r.db.QueryContext(ctx, q, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingTeacher
	for rows.Next() {
		var p PendingTeacher
		if err := rows.Scan(&p.UID, &p.Name, &p.Email, &p.SignedUpAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
