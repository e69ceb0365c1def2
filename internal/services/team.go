package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamExists        = errors.New("team name already exists")
	ErrTeamQuotaExceeded = errors.New("team limit reached")
	ErrAlreadyMember     = errors.New("already a member of this team")
	ErrNotMember         = errors.New("not a member of this team")
	ErrOwnerCannotLeave  = errors.New("team owner cannot leave the team, disband it instead")
	ErrNotTeamOwner      = errors.New("only the team owner can disband the team")
	ErrCannotKickOwner   = errors.New("cannot kick the team owner")
	ErrInsufficientRole  = errors.New("insufficient permissions")
	ErrTeamHasFiles      = errors.New("team still has files")
)

type TeamService struct {
	db       *database.DB
	activity *ActivityService
	quota    int
}

func NewTeamService(db *database.DB, activity *ActivityService, quota int) *TeamService {
	return &TeamService{db: db, activity: activity, quota: quota}
}

// Create inserts the team and its owner membership in one transaction.
// Non-admin users may own at most s.quota teams; both the stored admin
// flag and the count are read inside the same transaction as the insert,
// so a demoted admin loses the exemption immediately rather than at
// token expiry.
func (s *TeamService) Create(ctx context.Context, name, description string, ownerID uuid.UUID) (*models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var ownerIsAdmin bool
	err = tx.QueryRow(ctx, `
		SELECT is_admin FROM users WHERE id = $1
	`, ownerID).Scan(&ownerIsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to look up owner: %w", err)
	}

	if !ownerIsAdmin {
		var owned int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM teams WHERE owner_id = $1
		`, ownerID).Scan(&owned)
		if err != nil {
			return nil, fmt.Errorf("failed to count owned teams: %w", err)
		}
		if owned >= s.quota {
			return nil, ErrTeamQuotaExceeded
		}
	}

	var team models.Team
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, owner_id, created_at, updated_at
	`, name, description, ownerID).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrTeamExists
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, team.ID, ownerID, models.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       ownerID,
		Action:       models.ActionTeamCreated,
		ResourceType: models.ResourceTeam,
		ResourceID:   &team.ID,
		Details:      "Created team: " + team.Name,
	})

	team.Role = models.RoleOwner
	team.MemberCount = 1
	return &team, nil
}

func (s *TeamService) Join(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	var teamName string
	err := s.db.Pool.QueryRow(ctx, `SELECT name FROM teams WHERE id = $1`, teamID).Scan(&teamName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up team: %w", err)
	}

	var member models.TeamMember
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, team_id, user_id, role, joined_at
	`, teamID, userID, models.RoleMember).Scan(
		&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to join team: %w", err)
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       userID,
		Action:       models.ActionTeamJoined,
		ResourceType: models.ResourceTeam,
		ResourceID:   &teamID,
		Details:      "Joined team: " + teamName,
	})

	return &member, nil
}

func (s *TeamService) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	var teamName string
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT name, owner_id FROM teams WHERE id = $1
	`, teamID).Scan(&teamName, &ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to look up team: %w", err)
	}

	if ownerID == userID {
		return ErrOwnerCannotLeave
	}

	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       userID,
		Action:       models.ActionTeamLeft,
		ResourceType: models.ResourceTeam,
		ResourceID:   &teamID,
		Details:      "Left team: " + teamName,
	})

	return nil
}

// Kick removes a member. Only owners and team admins may kick, and the
// owner can never be kicked.
func (s *TeamService) Kick(ctx context.Context, teamID, targetID, actorID uuid.UUID) error {
	var actorRole string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, actorID).Scan(&actorRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInsufficientRole
		}
		return fmt.Errorf("failed to look up actor role: %w", err)
	}
	if actorRole != models.RoleOwner && actorRole != models.RoleAdmin {
		return ErrInsufficientRole
	}

	var teamName string
	var ownerID uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `
		SELECT name, owner_id FROM teams WHERE id = $1
	`, teamID).Scan(&teamName, &ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to look up team: %w", err)
	}

	if ownerID == targetID {
		return ErrCannotKickOwner
	}

	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, targetID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}

	var targetEmail string
	_ = s.db.Pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, targetID).Scan(&targetEmail)

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       actorID,
		Action:       models.ActionTeamMemberKicked,
		ResourceType: models.ResourceTeam,
		ResourceID:   &teamID,
		Details:      fmt.Sprintf("Kicked %s from team: %s", targetEmail, teamName),
	})

	return nil
}

// Disband removes the team and all memberships. It refuses while any
// live file still references the team, so team content can never be
// silently orphaned.
func (s *TeamService) Disband(ctx context.Context, teamID, actorID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var teamName string
	var ownerID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT name, owner_id FROM teams WHERE id = $1
	`, teamID).Scan(&teamName, &ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to look up team: %w", err)
	}

	if ownerID != actorID {
		return ErrNotTeamOwner
	}

	var fileCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM files WHERE team_id = $1 AND deleted_at IS NULL
	`, teamID).Scan(&fileCount)
	if err != nil {
		return fmt.Errorf("failed to count team files: %w", err)
	}
	if fileCount > 0 {
		return ErrTeamHasFiles
	}

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to remove members: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       actorID,
		Action:       models.ActionTeamDeleted,
		ResourceType: models.ResourceTeam,
		ResourceID:   &teamID,
		Details:      "Disbanded team: " + teamName,
	})

	return nil
}

func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at, tm.role,
		       (SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id),
		       (SELECT COUNT(*) FROM files f WHERE f.team_id = t.id AND f.deleted_at IS NULL)
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows, true)
}

// GetAvailableTeams returns teams the user could join.
func (s *TeamService) GetAvailableTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id),
		       (SELECT COUNT(*) FROM files f WHERE f.team_id = t.id AND f.deleted_at IS NULL)
		FROM teams t
		WHERE t.id NOT IN (
			SELECT team_id FROM team_members WHERE user_id = $1
		)
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query available teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows, false)
}

func (s *TeamService) CountUserTeams(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM team_members WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

// GetDetails returns a team with aggregates. Non-members get
// ErrTeamNotFound rather than a hint that the team exists.
func (s *TeamService) GetDetails(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at, tm.role,
		       (SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id),
		       (SELECT COUNT(*) FROM files f WHERE f.team_id = t.id AND f.deleted_at IS NULL)
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id AND tm.user_id = $2
		WHERE t.id = $1
	`, teamID, userID).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID,
		&team.CreatedAt, &team.UpdatedAt, &team.Role,
		&team.MemberCount, &team.FileCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to query team: %w", err)
	}
	return &team, nil
}

func (s *TeamService) GetMembers(ctx context.Context, teamID, userID uuid.UUID) ([]models.TeamMember, error) {
	isMember, err := s.IsMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at, u.email
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at ASC
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		var email string
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt, &email); err != nil {
			return nil, err
		}
		m.User = &models.User{ID: m.UserID, Email: email}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *TeamService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

func scanTeams(rows pgx.Rows, withRole bool) ([]models.Team, error) {
	var teams []models.Team
	for rows.Next() {
		var team models.Team
		dest := []any{
			&team.ID, &team.Name, &team.Description, &team.OwnerID,
			&team.CreatedAt, &team.UpdatedAt,
		}
		if withRole {
			dest = append(dest, &team.Role)
		}
		dest = append(dest, &team.MemberCount, &team.FileCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
