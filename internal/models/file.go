package models

import (
	"time"

	"github.com/google/uuid"
)

type File struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Content   string     `json:"content,omitempty"`
	FileSize  int64      `json:"file_size"`
	MimeType  string     `json:"mime_type"`
	Checksum  string     `json:"-"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	TeamID    *uuid.UUID `json:"team_id,omitempty"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FileVersion is an immutable snapshot of a file's content taken just
// before a content-modifying update. Rows are only ever appended.
type FileVersion struct {
	ID        uuid.UUID `json:"id"`
	FileID    uuid.UUID `json:"file_id"`
	Content   string    `json:"content"`
	FileSize  int64     `json:"file_size"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// IsTeamFile reports whether the file lives in a team space rather than
// its owner's personal space.
func (f *File) IsTeamFile() bool {
	return f.TeamID != nil
}
