package services

import (
	"context"
	"fmt"

	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/models"
)

// AdminService serves read-only aggregation views. It owns no state:
// everything here is a projection over the other components' tables.
type AdminService struct {
	db *database.DB
}

func NewAdminService(db *database.DB) *AdminService {
	return &AdminService{db: db}
}

type AdminUser struct {
	models.User
	FileCount int `json:"file_count"`
	TeamCount int `json:"team_count"`
}

type AdminTeam struct {
	models.Team
	OwnerEmail string `json:"owner_email"`
}

type SystemStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	TotalFiles     int `json:"total_files"`
	TotalTeams     int `json:"total_teams"`
	RecentActivity int `json:"recent_activity"`
}

func (s *AdminService) ListUsers(ctx context.Context) ([]AdminUser, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT u.id, u.email, u.is_admin, u.last_login, u.created_at, u.updated_at,
		       (SELECT COUNT(*) FROM files f WHERE f.owner_id = u.id AND f.deleted_at IS NULL),
		       (SELECT COUNT(*) FROM teams t WHERE t.owner_id = u.id)
		FROM users u
		ORDER BY u.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []AdminUser
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(
			&u.ID, &u.Email, &u.IsAdmin, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
			&u.FileCount, &u.TeamCount,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *AdminService) ListTeams(ctx context.Context) ([]AdminTeam, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.owner_id, t.created_at, t.updated_at, u.email,
		       (SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id),
		       (SELECT COUNT(*) FROM files f WHERE f.team_id = t.id AND f.deleted_at IS NULL)
		FROM teams t
		JOIN users u ON t.owner_id = u.id
		ORDER BY t.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []AdminTeam
	for rows.Next() {
		var t AdminTeam
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
			&t.OwnerEmail, &t.MemberCount, &t.FileCount,
		); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Stats: active users logged in within 30 days, recent activity within 7.
func (s *AdminService) Stats(ctx context.Context) (*SystemStats, error) {
	var stats SystemStats
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE last_login >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM files WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM teams),
			(SELECT COUNT(*) FROM activity_logs WHERE created_at >= NOW() - INTERVAL '7 days')
	`).Scan(&stats.TotalUsers, &stats.ActiveUsers, &stats.TotalFiles, &stats.TotalTeams, &stats.RecentActivity)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &stats, nil
}
