package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const uniqueViolation = "23505"

// UserService is the credential store: it owns user rows and is the only
// component that touches password hashes.
type UserService struct {
	db         *database.DB
	activity   *ActivityService
	bcryptCost int
}

func NewUserService(db *database.DB, activity *ActivityService, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, activity: activity, bcryptCost: bcryptCost}
}

// Register creates a user. Email uniqueness is enforced by the database
// constraint, so at most one of two concurrent signups can succeed.
func (s *UserService) Register(ctx context.Context, email, password, remoteAddr string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user models.User
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, is_admin, last_login, created_at, updated_at
	`, email, string(hash)).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       user.ID,
		Action:       models.ActionUserRegistered,
		ResourceType: models.ResourceUser,
		ResourceID:   &user.ID,
		Details:      "User registered: " + email,
		IPAddress:    remoteAddr,
	})

	return &user, nil
}

// Authenticate verifies credentials without revealing whether the email
// or the password was wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password, remoteAddr string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_admin, last_login, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	_, _ = s.db.Pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, now, user.ID)
	user.LastLogin = &now

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       user.ID,
		Action:       models.ActionUserLogin,
		ResourceType: models.ResourceUser,
		ResourceID:   &user.ID,
		Details:      "User logged in: " + email,
		IPAddress:    remoteAddr,
	})

	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_admin, last_login, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_admin, last_login, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetAdmin flips the admin flag. Used by the promote-admin CLI, not the
// HTTP surface.
func (s *UserService) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET is_admin = $1, updated_at = NOW() WHERE id = $2
	`, isAdmin, id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}
