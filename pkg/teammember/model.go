package teammember

import (
	"time"

	"github.com/google/uuid"
)

// Status is the account status of a team member. The lifecycle is
// INACTIVE -> ACTIVE <-> DEACTIVATED; nothing ever moves back to INACTIVE.
type Status string

const (
	StatusInactive    Status = "INACTIVE"
	StatusActive      Status = "ACTIVE"
	StatusDeactivated Status = "DEACTIVATED"
)

// Valid reports whether s is one of the three known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusInactive, StatusActive, StatusDeactivated:
		return true
	}
	return false
}

// PrincipalKind tags team member principals in responses, distinguishing
// them from admin principals elsewhere in the system.
const PrincipalKind = "teamMember"

// TeamMember is the full team member record, including secret hashes.
// It never leaves the service layer; callers get TeamMemberInfo projections.
type TeamMember struct {
	ID              uuid.UUID
	AdminID         uuid.UUID
	FirstName       string
	LastName        string
	Position        string
	JoinDate        time.Time
	Email           string
	PasswordHash    string
	InviteTokenHash string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TeamMemberInfo is the public projection of a team member record
type TeamMemberInfo struct {
	ID        uuid.UUID `json:"id"`
	AdminID   uuid.UUID `json:"adminId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Position  string    `json:"position"`
	JoinDate  time.Time `json:"joinDate"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Self is the projection a team member sees of its own account
type Self struct {
	TeamMemberInfo
	Kind string `json:"kind"`
}

// CreateTeamMemberParams is the profile an admin supplies when inviting.
// All fields are required.
type CreateTeamMemberParams struct {
	FirstName string
	LastName  string
	Email     string
	Position  string
	JoinDate  time.Time
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Position  *string
	JoinDate  *time.Time
}

// Empty reports whether the patch changes nothing
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Position == nil && p.JoinDate == nil
}
