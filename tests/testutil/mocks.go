package testutil

import (
	"context"

	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/Shadowjumper3000/markboard/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password, remoteAddr string) (*models.User, error) {
	args := m.Called(ctx, email, password, remoteAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password, remoteAddr string) (*models.User, error) {
	args := m.Called(ctx, email, password, remoteAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) Generate(userID uuid.UUID, email string, isAdmin bool) (string, error) {
	args := m.Called(userID, email, isAdmin)
	return args.String(0), args.Error(1)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, name, description string, ownerID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, name, description, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Join(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *MockTeamService) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *MockTeamService) Kick(ctx context.Context, teamID, targetID, actorID uuid.UUID) error {
	args := m.Called(ctx, teamID, targetID, actorID)
	return args.Error(0)
}

func (m *MockTeamService) Disband(ctx context.Context, teamID, actorID uuid.UUID) error {
	args := m.Called(ctx, teamID, actorID)
	return args.Error(0)
}

func (m *MockTeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamService) GetAvailableTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamService) CountUserTeams(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTeamService) GetDetails(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID, userID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

// MockFileService mocks the FileService
type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Create(ctx context.Context, input services.CreateFileInput) (*models.File, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, fileID, userID uuid.UUID) (*models.File, error) {
	args := m.Called(ctx, fileID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}

func (m *MockFileService) GetContent(ctx context.Context, fileID, userID uuid.UUID) (string, string, error) {
	args := m.Called(ctx, fileID, userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockFileService) Update(ctx context.Context, fileID, userID uuid.UUID, name, content *string) (*models.File, error) {
	args := m.Called(ctx, fileID, userID, name, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, fileID, userID uuid.UUID) error {
	args := m.Called(ctx, fileID, userID)
	return args.Error(0)
}

func (m *MockFileService) List(ctx context.Context, userID uuid.UUID) ([]models.File, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.File), args.Error(1)
}

func (m *MockFileService) ListVersions(ctx context.Context, fileID, userID uuid.UUID) ([]models.FileVersion, error) {
	args := m.Called(ctx, fileID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FileVersion), args.Error(1)
}

// MockAdminService mocks the AdminService
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListUsers(ctx context.Context) ([]services.AdminUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]services.AdminUser), args.Error(1)
}

func (m *MockAdminService) ListTeams(ctx context.Context) ([]services.AdminTeam, error) {
	args := m.Called(ctx)
	return args.Get(0).([]services.AdminTeam), args.Error(1)
}

func (m *MockAdminService) Stats(ctx context.Context) (*services.SystemStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SystemStats), args.Error(1)
}

// MockActivityService mocks the ActivityService
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Query(ctx context.Context, filter services.ActivityFilter) ([]models.ActivityLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}
