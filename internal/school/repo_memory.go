package school

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu      sync.Mutex
	schools map[string]School

	// confirmed[uid] = membership (school + admin flag)
	confirmed map[string]confirmedMember
	// pending[uid] = schoolID
	pending map[string]string

	// directory lets tests register names/emails for listing calls.
	directory map[string]directoryEntry
}

type confirmedMember struct {
	schoolID string
	admin    bool
}

type directoryEntry struct {
	name       string
	email      string
	signedUpAt time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		schools:   make(map[string]School),
		confirmed: make(map[string]confirmedMember),
		pending:   make(map[string]string),
		directory: make(map[string]directoryEntry),
	}
}

// RegisterTeacher seeds directory data used by the listing methods.
func (r *MemoryRepo) RegisterTeacher(uid, name, email string, signedUpAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.directory[uid] = directoryEntry{name: name, email: email, signedUpAt: signedUpAt}
}

func (r *MemoryRepo) ListSchools(ctx context.Context) ([]School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]School, 0, len(r.schools))
	for _, s := range r.schools {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) GetSchool(ctx context.Context, id string) (School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schools[id]
	if !ok {
		return School{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) CreateSchool(ctx context.Context, s School, founderUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schools[s.ID] = s
	r.confirmed[founderUID] = confirmedMember{schoolID: s.ID, admin: true}
	delete(r.pending, founderUID)
	return nil
}

func (r *MemoryRepo) FetchMembership(ctx context.Context, uid string) (Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var m Membership
	if cm, ok := r.confirmed[uid]; ok {
		m.SchoolID = cm.schoolID
		m.SchoolName = r.schools[cm.schoolID].Name
		m.Admin = cm.admin
	}
	if sid, ok := r.pending[uid]; ok {
		m.PendingSchoolID = sid
	}
	return m, nil
}

func (r *MemoryRepo) RequestJoin(ctx context.Context, uid, schoolID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[schoolID]; !ok {
		return ErrNotFound
	}
	r.pending[uid] = schoolID
	return nil
}

func (r *MemoryRepo) AcceptTeacher(ctx context.Context, schoolID, teacherUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending[teacherUID] != schoolID {
		return ErrNoPendingRequest
	}
	delete(r.pending, teacherUID)
	r.confirmed[teacherUID] = confirmedMember{schoolID: schoolID}
	return nil
}

func (r *MemoryRepo) Admins(ctx context.Context, schoolID string) ([]Member, error) {
	return r.members(schoolID, true)
}

func (r *MemoryRepo) Teachers(ctx context.Context, schoolID string) ([]Member, error) {
	return r.members(schoolID, false)
}

func (r *MemoryRepo) members(schoolID string, adminsOnly bool) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Member
	for uid, cm := range r.confirmed {
		if cm.schoolID != schoolID {
			continue
		}
		if adminsOnly && !cm.admin {
			continue
		}
		d := r.directory[uid]
		out = append(out, Member{UID: uid, Name: d.name, Email: d.email, Admin: cm.admin})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *MemoryRepo) PendingTeachers(ctx context.Context, schoolID string) ([]PendingTeacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PendingTeacher
	for uid, sid := range r.pending {
		if sid != schoolID {
			continue
		}
		d := r.directory[uid]
		out = append(out, PendingTeacher{UID: uid, Name: d.name, Email: d.email, SignedUpAt: d.signedUpAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}
