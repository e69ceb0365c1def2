package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFileRequest struct {
	Name    string     `json:"name" validate:"required,max=255"`
	Content string     `json:"content"`
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
}

type UpdateFileRequest struct {
	Name    *string `json:"name,omitempty"`
	Content *string `json:"content,omitempty"`
}

type FileResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Content   string     `json:"content,omitempty"`
	FileSize  int64      `json:"file_size"`
	MimeType  string     `json:"mime_type"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	TeamID    *uuid.UUID `json:"team_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type FileContentResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type FileVersionResponse struct {
	ID        uuid.UUID `json:"id"`
	FileID    uuid.UUID `json:"file_id"`
	Content   string    `json:"content"`
	FileSize  int64     `json:"file_size"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}
