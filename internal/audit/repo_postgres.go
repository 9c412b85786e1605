package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo stores audit events in an INSERT-only table.
//
// Assumed table:
//
//	audit_events (
//	  id uuid primary key,
//	  type text not null,
//	  actor_uid text not null default '',
//	  actor_role text not null default '',
//	  target_uid text not null default '',
//	  school_id text not null default '',
//	  ip_address text not null default '',
//	  message text not null default '',
//	  created_at timestamptz not null
//	)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, type, actor_uid, actor_role, target_uid, school_id, ip_address, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Type,
		e.ActorUID,
		e.ActorRole,
		e.TargetUID,
		e.SchoolID,
		e.IPAddress,
		e.Message,
		e.CreatedAt,
	)
	return err
}
