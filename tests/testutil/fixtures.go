package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext behind every fixture user's hash, so
// login flows can be exercised against fixture accounts.
const TestPassword = "Password1"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", f.counter),
		PasswordHash: string(hash),
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, is_admin, last_login, created_at, updated_at
	`, user.Email, user.PasswordHash, user.IsAdmin).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// AsAdmin marks the user as a site administrator
func AsAdmin() UserOption {
	return func(u *models.User) {
		u.IsAdmin = true
	}
}

// CreateTeam creates a test team with the given owner
func (f *Fixtures) CreateTeam(t *testing.T, owner *models.User, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		Name:    fmt.Sprintf("Test Team %d", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(team)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, owner_id, created_at, updated_at
	`, team.Name, team.Description, team.OwnerID).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, team.ID, owner.ID, models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return team
}

// TeamOption configures a test team
type TeamOption func(*models.Team)

// WithTeamName sets the team's name
func WithTeamName(name string) TeamOption {
	return func(t *models.Team) {
		t.Name = name
	}
}

// WithDescription sets the team's description
func WithDescription(description string) TeamOption {
	return func(t *models.Team) {
		t.Description = description
	}
}

// AddTeamMember adds a member to a team
func (f *Fixtures) AddTeamMember(t *testing.T, team *models.Team, user *models.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, team.ID, user.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
}

// CreateFile creates a test file owned by the given user. Pass WithFileTeam
// to attach it to a team.
func (f *Fixtures) CreateFile(t *testing.T, owner *models.User, opts ...FileOption) *models.File {
	t.Helper()
	f.counter++

	file := &models.File{
		Name:    fmt.Sprintf("test-file-%d.md", f.counter),
		Content: fmt.Sprintf("# Test File %d\n", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(file)
	}

	sum := sha256.Sum256([]byte(file.Content))

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO files (name, content, file_size, mime_type, checksum, owner_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, content, file_size, mime_type, checksum, owner_id, team_id, deleted_at, created_at, updated_at
	`, file.Name, file.Content, int64(len(file.Content)), "text/markdown",
		hex.EncodeToString(sum[:]), file.OwnerID, file.TeamID).Scan(
		&file.ID, &file.Name, &file.Content, &file.FileSize, &file.MimeType,
		&file.Checksum, &file.OwnerID, &file.TeamID, &file.DeletedAt,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	return file
}

// FileOption configures a test file
type FileOption func(*models.File)

// WithFileName sets the file's name
func WithFileName(name string) FileOption {
	return func(f *models.File) {
		f.Name = name
	}
}

// WithFileContent sets the file's content
func WithFileContent(content string) FileOption {
	return func(f *models.File) {
		f.Content = content
	}
}

// WithFileTeam attaches the file to the given team
func WithFileTeam(team *models.Team) FileOption {
	return func(f *models.File) {
		f.TeamID = &team.ID
	}
}
