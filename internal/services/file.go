package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/Shadowjumper3000/markboard/internal/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrFileExists       = errors.New("file with this name already exists")
	ErrAccessDenied     = errors.New("access denied")
	ErrNotTeamMember    = errors.New("access denied to team")
	ErrNoFieldsToUpdate = errors.New("no updates provided")
)

const (
	markdownExt    = ".md"
	maxFileNameLen = 255
)

type FileService struct {
	db       *database.DB
	activity *ActivityService
}

func NewFileService(db *database.DB, activity *ActivityService) *FileService {
	return &FileService{db: db, activity: activity}
}

type CreateFileInput struct {
	Name    string
	Content string
	OwnerID uuid.UUID
	TeamID  *uuid.UUID
}

// Create stores a new file. The name is sanitized and normalized to carry
// the markdown extension; team files require current membership.
func (s *FileService) Create(ctx context.Context, input CreateFileInput) (*models.File, error) {
	name := normalizeFileName(input.Name)

	if input.TeamID != nil {
		var isMember bool
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
		`, *input.TeamID, input.OwnerID).Scan(&isMember)
		if err != nil {
			return nil, fmt.Errorf("failed to check team membership: %w", err)
		}
		if !isMember {
			return nil, ErrNotTeamMember
		}
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	exists, err := fileNameTaken(ctx, tx, name, input.OwnerID, input.TeamID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFileExists
	}

	size := int64(len(input.Content))
	sum := contentChecksum(input.Content)

	var file models.File
	err = tx.QueryRow(ctx, `
		INSERT INTO files (name, content, file_size, mime_type, checksum, owner_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, content, file_size, mime_type, checksum, owner_id, team_id, deleted_at, created_at, updated_at
	`, name, input.Content, size, "text/markdown", sum, input.OwnerID, input.TeamID).Scan(
		&file.ID, &file.Name, &file.Content, &file.FileSize, &file.MimeType,
		&file.Checksum, &file.OwnerID, &file.TeamID, &file.DeletedAt,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	details := "Created file: " + name
	if input.TeamID != nil {
		details += " (Team file)"
	}
	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       input.OwnerID,
		Action:       models.ActionFileCreated,
		ResourceType: models.ResourceFile,
		ResourceID:   &file.ID,
		Details:      details,
	})

	return &file, nil
}

// Get returns a live file with content. Soft-deleted files are reported
// as missing.
func (s *FileService) Get(ctx context.Context, fileID, userID uuid.UUID) (*models.File, error) {
	file, err := s.getLive(ctx, fileID)
	if err != nil {
		return nil, err
	}

	readable, err := s.canRead(ctx, file, userID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrAccessDenied
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       userID,
		Action:       models.ActionFileViewed,
		ResourceType: models.ResourceFile,
		ResourceID:   &file.ID,
		Details:      "Viewed file: " + file.Name,
	})

	return file, nil
}

// GetContent serves the download path: name plus raw content.
func (s *FileService) GetContent(ctx context.Context, fileID, userID uuid.UUID) (string, string, error) {
	file, err := s.getLive(ctx, fileID)
	if err != nil {
		return "", "", err
	}

	readable, err := s.canRead(ctx, file, userID)
	if err != nil {
		return "", "", err
	}
	if !readable {
		return "", "", ErrAccessDenied
	}

	return file.Name, file.Content, nil
}

// Update patches name and/or content. A content change appends a version
// snapshot of the prior content before the row mutates; both writes share
// one transaction so history can never get ahead of or behind the file.
func (s *FileService) Update(ctx context.Context, fileID, userID uuid.UUID, name, content *string) (*models.File, error) {
	if name == nil && content == nil {
		return nil, ErrNoFieldsToUpdate
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var file models.File
	err = tx.QueryRow(ctx, `
		SELECT id, name, content, file_size, mime_type, checksum, owner_id, team_id, deleted_at, created_at, updated_at
		FROM files WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, fileID).Scan(
		&file.ID, &file.Name, &file.Content, &file.FileSize, &file.MimeType,
		&file.Checksum, &file.OwnerID, &file.TeamID, &file.DeletedAt,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}

	writable, err := canWriteTx(ctx, tx, &file, userID)
	if err != nil {
		return nil, err
	}
	if !writable {
		return nil, ErrAccessDenied
	}

	newName := file.Name
	if name != nil {
		newName = normalizeFileName(*name)
		if newName != file.Name {
			taken, err := fileNameTaken(ctx, tx, newName, file.OwnerID, file.TeamID, file.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrFileExists
			}
		}
	}

	newContent := file.Content
	contentChanged := content != nil && *content != file.Content
	if contentChanged {
		newContent = *content
		// Snapshot first: the version row must always hold the strictly
		// prior state.
		_, err = tx.Exec(ctx, `
			INSERT INTO file_versions (file_id, content, file_size, checksum)
			VALUES ($1, $2, $3, $4)
		`, file.ID, file.Content, file.FileSize, file.Checksum)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot version: %w", err)
		}
	}

	err = tx.QueryRow(ctx, `
		UPDATE files
		SET name = $1, content = $2, file_size = $3, checksum = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, name, content, file_size, mime_type, checksum, owner_id, team_id, deleted_at, created_at, updated_at
	`, newName, newContent, int64(len(newContent)), contentChecksum(newContent), file.ID).Scan(
		&file.ID, &file.Name, &file.Content, &file.FileSize, &file.MimeType,
		&file.Checksum, &file.OwnerID, &file.TeamID, &file.DeletedAt,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update file: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	var changes []string
	if name != nil {
		changes = append(changes, "name to '"+newName+"'")
	}
	if contentChanged {
		changes = append(changes, "content")
	}
	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       userID,
		Action:       models.ActionFileEdited,
		ResourceType: models.ResourceFile,
		ResourceID:   &file.ID,
		Details:      "Updated file " + file.Name + ": " + strings.Join(changes, ", "),
	})

	return &file, nil
}

// Delete soft-deletes: the row keeps its content and its version history.
func (s *FileService) Delete(ctx context.Context, fileID, userID uuid.UUID) error {
	file, err := s.getLive(ctx, fileID)
	if err != nil {
		return err
	}

	writable, err := s.canWrite(ctx, file, userID)
	if err != nil {
		return err
	}
	if !writable {
		return ErrAccessDenied
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE files SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL
	`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	_ = s.activity.Record(ctx, ActivityEntry{
		UserID:       userID,
		Action:       models.ActionFileDeleted,
		ResourceType: models.ResourceFile,
		ResourceID:   &fileID,
		Details:      "Deleted file: " + file.Name,
	})

	return nil
}

// List returns live files the user owns or can reach through team
// membership, newest-updated first. Content is omitted.
func (s *FileService) List(ctx context.Context, userID uuid.UUID) ([]models.File, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT f.id, f.name, f.file_size, f.mime_type, f.owner_id, f.team_id, f.created_at, f.updated_at
		FROM files f
		LEFT JOIN team_members tm ON f.team_id = tm.team_id AND tm.user_id = $1
		WHERE f.deleted_at IS NULL AND (f.owner_id = $1 OR tm.user_id IS NOT NULL)
		ORDER BY f.updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(
			&f.ID, &f.Name, &f.FileSize, &f.MimeType,
			&f.OwnerID, &f.TeamID, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// ListVersions returns snapshots oldest-first. History stays reachable
// after a soft delete; it is the audit record of the file.
func (s *FileService) ListVersions(ctx context.Context, fileID, userID uuid.UUID) ([]models.FileVersion, error) {
	var file models.File
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, owner_id, team_id FROM files WHERE id = $1
	`, fileID).Scan(&file.ID, &file.Name, &file.OwnerID, &file.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}

	readable, err := s.canRead(ctx, &file, userID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrAccessDenied
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, file_id, content, file_size, checksum, created_at
		FROM file_versions
		WHERE file_id = $1
		ORDER BY created_at ASC
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	var versions []models.FileVersion
	for rows.Next() {
		var v models.FileVersion
		if err := rows.Scan(&v.ID, &v.FileID, &v.Content, &v.FileSize, &v.Checksum, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *FileService) getLive(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	var file models.File
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, content, file_size, mime_type, checksum, owner_id, team_id, deleted_at, created_at, updated_at
		FROM files WHERE id = $1 AND deleted_at IS NULL
	`, fileID).Scan(
		&file.ID, &file.Name, &file.Content, &file.FileSize, &file.MimeType,
		&file.Checksum, &file.OwnerID, &file.TeamID, &file.DeletedAt,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return &file, nil
}

// canRead: the owner always reads their file; team files are also
// readable by current team members.
func (s *FileService) canRead(ctx context.Context, file *models.File, userID uuid.UUID) (bool, error) {
	if file.OwnerID == userID {
		return true, nil
	}
	if file.TeamID == nil {
		return false, nil
	}
	var isMember bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, *file.TeamID, userID).Scan(&isMember)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return isMember, nil
}

// canWrite: personal files only by their owner; team files by any
// current team member.
func (s *FileService) canWrite(ctx context.Context, file *models.File, userID uuid.UUID) (bool, error) {
	if file.TeamID == nil {
		return file.OwnerID == userID, nil
	}
	var isMember bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, *file.TeamID, userID).Scan(&isMember)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return isMember, nil
}

func canWriteTx(ctx context.Context, tx pgx.Tx, file *models.File, userID uuid.UUID) (bool, error) {
	if file.TeamID == nil {
		return file.OwnerID == userID, nil
	}
	var isMember bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, *file.TeamID, userID).Scan(&isMember)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return isMember, nil
}

func fileNameTaken(ctx context.Context, tx pgx.Tx, name string, ownerID uuid.UUID, teamID *uuid.UUID, excludeID uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if teamID != nil {
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM files WHERE name = $1 AND team_id = $2 AND deleted_at IS NULL AND id != $3)
		`, name, *teamID, excludeID).Scan(&exists)
	} else {
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM files WHERE name = $1 AND owner_id = $2 AND team_id IS NULL AND deleted_at IS NULL AND id != $3)
		`, name, ownerID, excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file name: %w", err)
	}
	return exists, nil
}

// normalizeFileName sanitizes the name and guarantees the stored name
// carries the markdown extension. Display name stripping is a frontend
// concern; the stored name is canonical.
func normalizeFileName(name string) string {
	clean := validation.SanitizeFilename(strings.TrimSpace(name))
	if !strings.HasSuffix(strings.ToLower(clean), markdownExt) {
		clean += markdownExt
	}
	// The name column holds 255 characters; trim the stem, never the
	// extension.
	if runes := []rune(clean); len(runes) > maxFileNameLen {
		stem := strings.TrimRight(string(runes[:maxFileNameLen-len(markdownExt)]), ". ")
		clean = stem + markdownExt
	}
	return clean
}

func contentChecksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
