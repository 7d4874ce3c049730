package teammember

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	errs "github.com/aliramazon/projectify-app-api/pkg/errors"
	"github.com/aliramazon/projectify-app-api/pkg/invitetoken"
	"github.com/aliramazon/projectify-app-api/pkg/notification"
	"github.com/aliramazon/projectify-app-api/pkg/password"
	"github.com/aliramazon/projectify-app-api/pkg/session"
)

// TeamMemberService owns the business rules of the team member lifecycle.
// It is stateless; all state lives in the repository.
type TeamMemberService struct {
	repo          TeamMemberRepository
	hasher        password.Hasher
	tokens        invitetoken.TokenService
	notifier      notification.Notifier
	sessions      session.Issuer
	sessionExpiry time.Duration
}

// TeamMemberServiceOption defines configuration options
type TeamMemberServiceOption func(*TeamMemberService)

// WithSessionExpiry sets the validity window of issued session credentials
func WithSessionExpiry(expiry time.Duration) TeamMemberServiceOption {
	return func(s *TeamMemberService) {
		s.sessionExpiry = expiry
	}
}

// NewTeamMemberService creates a new team member lifecycle service
func NewTeamMemberService(
	repo TeamMemberRepository,
	hasher password.Hasher,
	tokens invitetoken.TokenService,
	notifier notification.Notifier,
	sessions session.Issuer,
	opts ...TeamMemberServiceOption,
) *TeamMemberService {
	service := &TeamMemberService{
		repo:          repo,
		hasher:        hasher,
		tokens:        tokens,
		notifier:      notifier,
		sessions:      sessions,
		sessionExpiry: session.DefaultSessionExpiry,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Invite creates an INACTIVE team member owned by the calling admin and
// emails the plaintext invite token. The record is durably created before
// the email goes out; a failed email does not roll the record back.
func (s *TeamMemberService) Invite(ctx context.Context, adminID uuid.UUID, params CreateTeamMemberParams) (TeamMemberInfo, error) {
	if err := validateCreateParams(params); err != nil {
		return TeamMemberInfo{}, err
	}

	_, err := s.repo.GetByEmail(ctx, params.Email)
	if err == nil {
		return TeamMemberInfo{}, errs.AlreadyExists("team member", params.Email)
	}
	if !errors.Is(err, ErrTeamMemberNotFound) {
		return TeamMemberInfo{}, errs.InternalWrap(err, "failed to check email uniqueness")
	}

	token, err := s.tokens.Generate()
	if err != nil {
		slog.Error("Failed to generate invite token", "err", err)
		return TeamMemberInfo{}, errs.InternalWrap(err, "failed to generate invite token")
	}

	member, err := s.repo.Create(ctx, TeamMember{
		AdminID:         adminID,
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		Position:        params.Position,
		JoinDate:        params.JoinDate,
		Email:           params.Email,
		InviteTokenHash: s.tokens.Hash(token),
		Status:          StatusInactive,
	})
	if err != nil {
		slog.Error("Failed to create team member", "admin_id", adminID, "err", err)
		return TeamMemberInfo{}, errs.InternalWrap(err, "failed to create team member")
	}

	err = s.notifier.Send(notification.NewInviteEmail(member.Email, token))
	if err != nil {
		slog.Error("Failed to send invite email", "team_member_id", member.ID, "err", err)
		// Don't return error - record is created, email sending is best effort
	}

	slog.Info("Team member invited", "team_member_id", member.ID, "admin_id", adminID)
	return toInfo(member), nil
}

// CompleteSetup activates a pending team member: the invite token resolves
// the record, the password hash is stored and the invite token is cleared.
func (s *TeamMemberService) CompleteSetup(ctx context.Context, token, pw, confirmPassword, email string) error {
	if token == "" || pw == "" || confirmPassword == "" || email == "" {
		return errs.Validation("token, password, password confirmation and email are required")
	}
	if pw != confirmPassword {
		return errs.Validation("passwords do not match")
	}

	member, err := s.repo.GetByInviteTokenHash(ctx, s.tokens.Hash(token))
	if err != nil {
		if errors.Is(err, ErrTeamMemberNotFound) {
			return errs.New(errs.ErrCodeTokenInvalid, "invalid token")
		}
		return errs.InternalWrap(err, "failed to look up invite token")
	}

	// The token already identifies the record; the supplied email must agree
	// with it, otherwise the token is treated as invalid.
	if !strings.EqualFold(member.Email, email) {
		slog.Warn("Setup email does not match invited member", "team_member_id", member.ID)
		return errs.New(errs.ErrCodeTokenInvalid, "invalid token")
	}

	passwordHash, err := s.hasher.Hash(pw)
	if err != nil {
		slog.Error("Failed to hash password", "team_member_id", member.ID, "err", err)
		return errs.InternalWrap(err, "failed to hash password")
	}

	err = s.repo.Activate(ctx, member.ID, passwordHash)
	if err != nil {
		slog.Error("Failed to activate team member", "team_member_id", member.ID, "err", err)
		return errs.InternalWrap(err, "failed to activate team member")
	}

	slog.Info("Team member activated", "team_member_id", member.ID)
	return nil
}

// ListForAdmin returns public projections of all team members owned by adminID
func (s *TeamMemberService) ListForAdmin(ctx context.Context, adminID uuid.UUID) ([]TeamMemberInfo, error) {
	members, err := s.repo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, errs.InternalWrap(err, "failed to list team members")
	}

	infos := make([]TeamMemberInfo, len(members))
	for i, member := range members {
		infos[i] = toInfo(member)
	}
	return infos, nil
}

// SetStatus flips a team member between ACTIVE and DEACTIVATED. Members that
// have never set a password stay INACTIVE; the only way out of INACTIVE is
// completing setup, and the only admin action on them is deletion.
func (s *TeamMemberService) SetStatus(ctx context.Context, adminID, teamMemberID uuid.UUID, newStatus Status) error {
	if newStatus != StatusActive && newStatus != StatusDeactivated {
		return errs.Validation("status must be ACTIVE or DEACTIVATED")
	}

	member, err := s.getOwned(ctx, teamMemberID, adminID)
	if err != nil {
		return err
	}

	if member.Status == StatusInactive {
		return errs.Forbidden("status change is not allowed")
	}

	err = s.repo.UpdateStatus(ctx, teamMemberID, newStatus)
	if err != nil {
		return errs.InternalWrap(err, "failed to update status")
	}

	slog.Info("Team member status changed", "team_member_id", teamMemberID, "status", newStatus)
	return nil
}

// Remove hard-deletes a team member. Only INACTIVE members are deletable.
func (s *TeamMemberService) Remove(ctx context.Context, adminID, teamMemberID uuid.UUID) error {
	member, err := s.getOwned(ctx, teamMemberID, adminID)
	if err != nil {
		return err
	}

	if member.Status != StatusInactive {
		return errs.Forbidden("only inactive team members can be deleted")
	}

	err = s.repo.Delete(ctx, teamMemberID)
	if err != nil {
		return errs.InternalWrap(err, "failed to delete team member")
	}

	slog.Info("Team member deleted", "team_member_id", teamMemberID, "admin_id", adminID)
	return nil
}

// UpdateProfile applies a partial profile update scoped by (teamMemberID, adminID).
// A scoped update that touches no record surfaces a not-found error.
func (s *TeamMemberService) UpdateProfile(ctx context.Context, adminID, teamMemberID uuid.UUID, patch ProfilePatch) error {
	if patch.Empty() {
		return errs.Validation("no profile fields provided")
	}

	affected, err := s.repo.UpdateProfile(ctx, teamMemberID, adminID, patch)
	if err != nil {
		return errs.InternalWrap(err, "failed to update profile")
	}
	if affected == 0 {
		return errs.NotFound("team member", teamMemberID.String())
	}

	return nil
}

// AssertOwnership verifies that a team member exists and is owned by adminID
func (s *TeamMemberService) AssertOwnership(ctx context.Context, teamMemberID, adminID uuid.UUID) error {
	_, err := s.getOwned(ctx, teamMemberID, adminID)
	return err
}

// Authenticate verifies a team member's credentials and issues a session
// credential binding the member to its owning admin. An INACTIVE member is
// re-sent a fresh invite token instead; the previous token stops matching.
func (s *TeamMemberService) Authenticate(ctx context.Context, email, pw string) (string, error) {
	member, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrTeamMemberNotFound) {
			// Same message as a wrong password; the response must not
			// reveal whether the email is known.
			return "", errs.New(errs.ErrCodeNotFound, "invalid credentials")
		}
		return "", errs.InternalWrap(err, "failed to look up team member")
	}

	switch member.Status {
	case StatusInactive:
		err = s.reissueInvite(ctx, member)
		if err != nil {
			return "", err
		}
		return "", errs.New(errs.ErrCodePasswordNotSet, "password is not set yet, check your email for a new invite token")
	case StatusDeactivated:
		return "", errs.New(errs.ErrCodeAccountDeactivated, "account is deactivated")
	}

	ok, err := s.hasher.Verify(pw, member.PasswordHash)
	if err != nil {
		slog.Error("Failed to verify password", "team_member_id", member.ID, "err", err)
		return "", errs.InternalWrap(err, "failed to verify password")
	}
	if !ok {
		return "", errs.New(errs.ErrCodeInvalidCredentials, "invalid credentials")
	}

	credential, err := s.sessions.Issue(member.ID, member.AdminID, s.sessionExpiry)
	if err != nil {
		slog.Error("Failed to issue session credential", "team_member_id", member.ID, "err", err)
		return "", errs.InternalWrap(err, "failed to issue session credential")
	}

	slog.Info("Team member authenticated", "team_member_id", member.ID)
	return credential, nil
}

// GetSelf returns the public profile a team member sees of its own account
func (s *TeamMemberService) GetSelf(ctx context.Context, teamMemberID uuid.UUID) (Self, error) {
	member, err := s.repo.GetByID(ctx, teamMemberID)
	if err != nil {
		if errors.Is(err, ErrTeamMemberNotFound) {
			return Self{}, errs.NotFound("team member", teamMemberID.String())
		}
		return Self{}, errs.InternalWrap(err, "failed to get team member")
	}

	return Self{
		TeamMemberInfo: toInfo(member),
		Kind:           PrincipalKind,
	}, nil
}

// reissueInvite rotates the invite token of an INACTIVE member and re-emails
// it. The stored hash is replaced first so the old token stops matching even
// if the email never arrives.
func (s *TeamMemberService) reissueInvite(ctx context.Context, member TeamMember) error {
	token, err := s.tokens.Generate()
	if err != nil {
		slog.Error("Failed to generate invite token", "team_member_id", member.ID, "err", err)
		return errs.InternalWrap(err, "failed to generate invite token")
	}

	err = s.repo.SetInviteTokenHash(ctx, member.ID, s.tokens.Hash(token))
	if err != nil {
		slog.Error("Failed to store invite token", "team_member_id", member.ID, "err", err)
		return errs.InternalWrap(err, "failed to store invite token")
	}

	err = s.notifier.Send(notification.NewInviteEmail(member.Email, token))
	if err != nil {
		slog.Error("Failed to send invite email", "team_member_id", member.ID, "err", err)
		// Don't return error - token is rotated, email sending is best effort
	}

	slog.Info("Invite token re-issued", "team_member_id", member.ID)
	return nil
}

// getOwned loads a team member and enforces the ownership gate
func (s *TeamMemberService) getOwned(ctx context.Context, teamMemberID, adminID uuid.UUID) (TeamMember, error) {
	member, err := s.repo.GetByID(ctx, teamMemberID)
	if err != nil {
		if errors.Is(err, ErrTeamMemberNotFound) {
			return TeamMember{}, errs.NotFound("team member", teamMemberID.String())
		}
		return TeamMember{}, errs.InternalWrap(err, "failed to get team member")
	}
	if member.AdminID != adminID {
		return TeamMember{}, errs.Forbidden("team member does not belong to this admin")
	}
	return member, nil
}

func validateCreateParams(params CreateTeamMemberParams) error {
	var missing []string
	if params.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if params.LastName == "" {
		missing = append(missing, "lastName")
	}
	if params.Email == "" {
		missing = append(missing, "email")
	}
	if params.Position == "" {
		missing = append(missing, "position")
	}
	if params.JoinDate.IsZero() {
		missing = append(missing, "joinDate")
	}
	if len(missing) > 0 {
		return errs.Validation(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}

func toInfo(member TeamMember) TeamMemberInfo {
	var info TeamMemberInfo
	copier.Copy(&info, &member)
	return info
}
