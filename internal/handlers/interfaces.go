package handlers

import (
	"context"

	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/Shadowjumper3000/markboard/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, password, remoteAddr string) (*models.User, error)
	Authenticate(ctx context.Context, email, password, remoteAddr string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name, description string, ownerID uuid.UUID) (*models.Team, error)
	Join(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error)
	Leave(ctx context.Context, teamID, userID uuid.UUID) error
	Kick(ctx context.Context, teamID, targetID, actorID uuid.UUID) error
	Disband(ctx context.Context, teamID, actorID uuid.UUID) error
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	GetAvailableTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	CountUserTeams(ctx context.Context, userID uuid.UUID) (int, error)
	GetDetails(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error)
	GetMembers(ctx context.Context, teamID, userID uuid.UUID) ([]models.TeamMember, error)
}

// FileServiceInterface defines the methods used by handlers from FileService
type FileServiceInterface interface {
	Create(ctx context.Context, input services.CreateFileInput) (*models.File, error)
	Get(ctx context.Context, fileID, userID uuid.UUID) (*models.File, error)
	GetContent(ctx context.Context, fileID, userID uuid.UUID) (string, string, error)
	Update(ctx context.Context, fileID, userID uuid.UUID, name, content *string) (*models.File, error)
	Delete(ctx context.Context, fileID, userID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.File, error)
	ListVersions(ctx context.Context, fileID, userID uuid.UUID) ([]models.FileVersion, error)
}

// AdminServiceInterface defines the methods used by handlers from AdminService
type AdminServiceInterface interface {
	ListUsers(ctx context.Context) ([]services.AdminUser, error)
	ListTeams(ctx context.Context) ([]services.AdminTeam, error)
	Stats(ctx context.Context) (*services.SystemStats, error)
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	Generate(userID uuid.UUID, email string, isAdmin bool) (string, error)
}

// ActivityServiceInterface defines the methods used by handlers from ActivityService
type ActivityServiceInterface interface {
	Query(ctx context.Context, filter services.ActivityFilter) ([]models.ActivityLog, error)
}
