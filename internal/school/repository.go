package school

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("school: not found")
	ErrNoPendingRequest = errors.New("school: no pending join request")
)

// Repository is the persistence contract for schools and memberships.
//
// FetchMembership is the single read the route guard depends on; it must stay
// cheap and fresh (no caching layer in front of it). A teacher with neither a
// confirmed school nor a pending join gets a zero Membership and a nil error.
type Repository interface {
	ListSchools(ctx context.Context) ([]School, error)
	GetSchool(ctx context.Context, id string) (School, error)
	// CreateSchool stores s and makes founderUID a confirmed admin member.
	CreateSchool(ctx context.Context, s School, founderUID string) error

	FetchMembership(ctx context.Context, uid string) (Membership, error)
	// RequestJoin records uid's pending join to schoolID, replacing any
	// previous pending request.
	RequestJoin(ctx context.Context, uid, schoolID string) error
	// AcceptTeacher promotes teacherUID's pending request on schoolID to a
	// confirmed non-admin membership.
	AcceptTeacher(ctx context.Context, schoolID, teacherUID string) error

	Admins(ctx context.Context, schoolID string) ([]Member, error)
	Teachers(ctx context.Context, schoolID string) ([]Member, error)
	PendingTeachers(ctx context.Context, schoolID string) ([]PendingTeacher, error)
}
