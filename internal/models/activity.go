package models

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the activity log.
const (
	ActionUserRegistered   = "user_registered"
	ActionUserLogin        = "user_login"
	ActionFileCreated      = "file_created"
	ActionFileViewed       = "file_viewed"
	ActionFileEdited       = "file_edited"
	ActionFileDeleted      = "file_deleted"
	ActionTeamCreated      = "team_created"
	ActionTeamJoined       = "team_joined"
	ActionTeamLeft         = "team_left"
	ActionTeamDeleted      = "team_deleted"
	ActionTeamMemberKicked = "team_member_kicked"
)

// Resource types referenced by activity log entries.
const (
	ResourceUser = "user"
	ResourceTeam = "team"
	ResourceFile = "file"
)

type ActivityLog struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resource_type"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty"`
	Details      *string    `json:"details,omitempty"`
	IPAddress    *string    `json:"ip_address,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// Joined from users for admin feeds; empty when the user is gone.
	UserEmail string `json:"user_email,omitempty"`
}
