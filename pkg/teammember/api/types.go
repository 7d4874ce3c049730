package api

import (
	"time"

	"github.com/aliramazon/projectify-app-api/pkg/teammember"
)

// InviteRequest is the body of POST /team-members
type InviteRequest struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	JoinDate  time.Time `json:"joinDate"`
}

// InviteResponse returns the created team member's public fields
type InviteResponse struct {
	Data teammember.TeamMemberInfo `json:"data"`
}

// CreatePasswordRequest is the body of POST /team-members/create-password
type CreatePasswordRequest struct {
	InviteToken     string `json:"inviteToken"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Email           string `json:"email"`
}

// LoginRequest is the body of POST /team-members/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session credential
type LoginResponse struct {
	Token string `json:"token"`
}

// ListResponse returns all team members owned by the calling admin
type ListResponse struct {
	Data []teammember.TeamMemberInfo `json:"data"`
}

// MeResponse returns a team member's own profile
type MeResponse struct {
	Data teammember.Self `json:"data"`
}

// UpdateProfileRequest is the body of PATCH /team-members/{id}.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	FirstName *string    `json:"firstName,omitempty"`
	LastName  *string    `json:"lastName,omitempty"`
	Position  *string    `json:"position,omitempty"`
	JoinDate  *time.Time `json:"joinDate,omitempty"`
}

// MessageResponse is a generic success message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
