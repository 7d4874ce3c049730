package teammember

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors returned at the repository boundary
var (
	ErrTeamMemberNotFound = errors.New("team member not found")
)

// TeamMemberRepository defines the storage operations the lifecycle service
// needs. Implementations map their own not-found conditions to
// ErrTeamMemberNotFound.
type TeamMemberRepository interface {
	Create(ctx context.Context, member TeamMember) (TeamMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (TeamMember, error)
	GetByEmail(ctx context.Context, email string) (TeamMember, error)
	GetByInviteTokenHash(ctx context.Context, tokenHash string) (TeamMember, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]TeamMember, error)

	// UpdateProfile applies the patch scoped by (id, adminID) and returns
	// the number of rows affected.
	UpdateProfile(ctx context.Context, id, adminID uuid.UUID, patch ProfilePatch) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Activate stores the password hash, clears the invite token hash and
	// flips the status to ACTIVE in a single write.
	Activate(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SetInviteTokenHash replaces the pending invite token hash
	SetInviteTokenHash(ctx context.Context, id uuid.UUID, tokenHash string) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresTeamMemberRepository implements TeamMemberRepository on PostgreSQL
type PostgresTeamMemberRepository struct {
	db *pgxpool.Pool
}

// NewPostgresTeamMemberRepository creates a new PostgreSQL-backed repository
func NewPostgresTeamMemberRepository(db *pgxpool.Pool) *PostgresTeamMemberRepository {
	return &PostgresTeamMemberRepository{db: db}
}

const teamMemberColumns = `id, admin_id, first_name, last_name, position, join_date, email,
	COALESCE(password_hash, ''), COALESCE(invite_token_hash, ''), status, created_at, updated_at`

func scanTeamMember(row pgx.Row) (TeamMember, error) {
	var tm TeamMember
	err := row.Scan(
		&tm.ID,
		&tm.AdminID,
		&tm.FirstName,
		&tm.LastName,
		&tm.Position,
		&tm.JoinDate,
		&tm.Email,
		&tm.PasswordHash,
		&tm.InviteTokenHash,
		&tm.Status,
		&tm.CreatedAt,
		&tm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TeamMember{}, ErrTeamMemberNotFound
		}
		return TeamMember{}, err
	}
	return tm, nil
}

// Create inserts a new team member record
func (r *PostgresTeamMemberRepository) Create(ctx context.Context, member TeamMember) (TeamMember, error) {
	query := `
		INSERT INTO team_members (admin_id, first_name, last_name, position, join_date, email, invite_token_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING ` + teamMemberColumns

	row := r.db.QueryRow(ctx, query,
		member.AdminID,
		member.FirstName,
		member.LastName,
		member.Position,
		member.JoinDate,
		member.Email,
		member.InviteTokenHash,
		member.Status,
	)
	return scanTeamMember(row)
}

// GetByID retrieves a team member by ID
func (r *PostgresTeamMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = $1`
	return scanTeamMember(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a team member by email
func (r *PostgresTeamMemberRepository) GetByEmail(ctx context.Context, email string) (TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE email = $1`
	return scanTeamMember(r.db.QueryRow(ctx, query, email))
}

// GetByInviteTokenHash retrieves a team member by pending invite token hash
func (r *PostgresTeamMemberRepository) GetByInviteTokenHash(ctx context.Context, tokenHash string) (TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE invite_token_hash = $1`
	return scanTeamMember(r.db.QueryRow(ctx, query, tokenHash))
}

// ListByAdmin retrieves all team members owned by an admin
func (r *PostgresTeamMemberRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE admin_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []TeamMember
	for rows.Next() {
		tm, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, tm)
	}
	return members, rows.Err()
}

// UpdateProfile applies a partial profile update scoped by (id, adminID)
func (r *PostgresTeamMemberRepository) UpdateProfile(ctx context.Context, id, adminID uuid.UUID, patch ProfilePatch) (int64, error) {
	query := `
		UPDATE team_members
		SET first_name = COALESCE($3, first_name),
		    last_name  = COALESCE($4, last_name),
		    position   = COALESCE($5, position),
		    join_date  = COALESCE($6, join_date),
		    updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1 AND admin_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, adminID, patch.FirstName, patch.LastName, patch.Position, patch.JoinDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateStatus sets the account status
func (r *PostgresTeamMemberRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `
		UPDATE team_members
		SET status = $2, updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

// Activate stores the password hash, clears the invite token and activates
func (r *PostgresTeamMemberRepository) Activate(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE team_members
		SET password_hash = $2,
		    invite_token_hash = NULL,
		    status = 'ACTIVE',
		    updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

// SetInviteTokenHash replaces the pending invite token hash
func (r *PostgresTeamMemberRepository) SetInviteTokenHash(ctx context.Context, id uuid.UUID, tokenHash string) error {
	query := `
		UPDATE team_members
		SET invite_token_hash = $2, updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

// Delete hard-deletes a team member record
func (r *PostgresTeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM team_members WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}
