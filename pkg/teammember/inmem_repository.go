package teammember

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryTeamMemberRepository implements TeamMemberRepository using
// in-memory storage. Used by tests and the inmem development binary.
type InMemoryTeamMemberRepository struct {
	mu      sync.RWMutex
	members map[uuid.UUID]TeamMember
}

// NewInMemoryTeamMemberRepository creates a new in-memory repository
func NewInMemoryTeamMemberRepository() *InMemoryTeamMemberRepository {
	return &InMemoryTeamMemberRepository{
		members: make(map[uuid.UUID]TeamMember),
	}
}

// Create inserts a new team member record
func (r *InMemoryTeamMemberRepository) Create(ctx context.Context, member TeamMember) (TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	r.members[member.ID] = member
	return member, nil
}

// GetByID retrieves a team member by ID
func (r *InMemoryTeamMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[id]
	if !ok {
		return TeamMember{}, ErrTeamMemberNotFound
	}
	return member, nil
}

// GetByEmail retrieves a team member by email
func (r *InMemoryTeamMemberRepository) GetByEmail(ctx context.Context, email string) (TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, member := range r.members {
		if member.Email == email {
			return member, nil
		}
	}
	return TeamMember{}, ErrTeamMemberNotFound
}

// GetByInviteTokenHash retrieves a team member by pending invite token hash
func (r *InMemoryTeamMemberRepository) GetByInviteTokenHash(ctx context.Context, tokenHash string) (TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, member := range r.members {
		if member.InviteTokenHash != "" && member.InviteTokenHash == tokenHash {
			return member, nil
		}
	}
	return TeamMember{}, ErrTeamMemberNotFound
}

// ListByAdmin retrieves all team members owned by an admin
func (r *InMemoryTeamMemberRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []TeamMember
	for _, member := range r.members {
		if member.AdminID == adminID {
			members = append(members, member)
		}
	}
	return members, nil
}

// UpdateProfile applies a partial profile update scoped by (id, adminID)
func (r *InMemoryTeamMemberRepository) UpdateProfile(ctx context.Context, id, adminID uuid.UUID, patch ProfilePatch) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.members[id]
	if !ok || member.AdminID != adminID {
		return 0, nil
	}

	if patch.FirstName != nil {
		member.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		member.LastName = *patch.LastName
	}
	if patch.Position != nil {
		member.Position = *patch.Position
	}
	if patch.JoinDate != nil {
		member.JoinDate = *patch.JoinDate
	}
	member.UpdatedAt = time.Now().UTC()

	r.members[id] = member
	return 1, nil
}

// UpdateStatus sets the account status
func (r *InMemoryTeamMemberRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.members[id]
	if !ok {
		return ErrTeamMemberNotFound
	}
	member.Status = status
	member.UpdatedAt = time.Now().UTC()
	r.members[id] = member
	return nil
}

// Activate stores the password hash, clears the invite token and activates
func (r *InMemoryTeamMemberRepository) Activate(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.members[id]
	if !ok {
		return ErrTeamMemberNotFound
	}
	member.PasswordHash = passwordHash
	member.InviteTokenHash = ""
	member.Status = StatusActive
	member.UpdatedAt = time.Now().UTC()
	r.members[id] = member
	return nil
}

// SetInviteTokenHash replaces the pending invite token hash
func (r *InMemoryTeamMemberRepository) SetInviteTokenHash(ctx context.Context, id uuid.UUID, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.members[id]
	if !ok {
		return ErrTeamMemberNotFound
	}
	member.InviteTokenHash = tokenHash
	member.UpdatedAt = time.Now().UTC()
	r.members[id] = member
	return nil
}

// Delete hard-deletes a team member record
func (r *InMemoryTeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[id]; !ok {
		return ErrTeamMemberNotFound
	}
	delete(r.members, id)
	return nil
}
