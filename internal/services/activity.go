package services

import (
	"context"
	"fmt"

	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ActivityService appends to and reads the audit trail. Recording is best
// effort: callers deliberately ignore the returned error so a failed log
// write never rolls back the action it describes.
type ActivityService struct {
	db *database.DB
}

func NewActivityService(db *database.DB) *ActivityService {
	return &ActivityService{db: db}
}

type ActivityEntry struct {
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Details      string
	IPAddress    string
}

func (s *ActivityService) Record(ctx context.Context, entry ActivityEntry) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO activity_logs (user_id, action, resource_type, resource_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID,
		nullableString(entry.Details), nullableString(entry.IPAddress))
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":  entry.Action,
			"user_id": entry.UserID,
		}).Warn("failed to record activity")
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

type ActivityFilter struct {
	Limit        int
	UserID       *uuid.UUID
	ResourceType string
}

// Query returns entries newest-first, joined with the acting user's email.
func (s *ActivityService) Query(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT al.id, al.user_id, al.action, al.resource_type, al.resource_id,
		       al.details, al.ip_address, al.created_at, COALESCE(u.email, '')
		FROM activity_logs al
		LEFT JOIN users u ON al.user_id = u.id
		WHERE 1=1`
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND al.user_id = $%d", len(args))
	}
	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		query += fmt.Sprintf(" AND al.resource_type = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY al.created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &entry.ResourceType,
			&entry.ResourceID, &entry.Details, &entry.IPAddress,
			&entry.CreatedAt, &entry.UserEmail,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
