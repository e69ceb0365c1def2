package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"is_admin"`
	FileCount int        `json:"file_count"`
	TeamCount int        `json:"team_count"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type AdminTeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OwnerEmail  string    `json:"owner_email"`
	MemberCount int       `json:"member_count"`
	FileCount   int       `json:"file_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	TotalFiles     int `json:"total_files"`
	TotalTeams     int `json:"total_teams"`
	RecentActivity int `json:"recent_activity"`
}

type ActivityResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	UserEmail    string     `json:"user_email,omitempty"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resource_type"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty"`
	Details      *string    `json:"details,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
