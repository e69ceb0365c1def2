package handlers

import (
	"context"
	"errors"

	"github.com/Shadowjumper3000/markboard/internal/middleware"
	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/Shadowjumper3000/markboard/internal/services"
	"github.com/Shadowjumper3000/markboard/internal/validation"
	"github.com/Shadowjumper3000/markboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type FileHandler struct {
	fileService FileServiceInterface
}

func NewFileHandler(fileService FileServiceInterface) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	files, err := h.fileService.List(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list files")
		return
	}

	response := make([]dto.FileResponse, len(files))
	for i, f := range files {
		response[i] = fileResponse(&f, false)
	}
	_ = c.JSON(200, response)
}

func (h *FileHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateFileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	file, err := h.fileService.Create(context.Background(), services.CreateFileInput{
		Name:    req.Name,
		Content: req.Content,
		OwnerID: userID,
		TeamID:  req.TeamID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileExists):
			_ = c.JSON(409, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrNotTeamMember):
			c.Forbidden(err.Error())
		default:
			c.InternalServerError("failed to create file")
		}
		return
	}

	_ = c.JSON(201, fileResponse(file, true))
}

func (h *FileHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid file id")
		return
	}

	file, err := h.fileService.Get(context.Background(), fileID, userID)
	if err != nil {
		respondFileError(c, err, "failed to get file")
		return
	}

	_ = c.JSON(200, fileResponse(file, true))
}

func (h *FileHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid file id")
		return
	}

	var req dto.UpdateFileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name != nil && *req.Name == "" {
		c.BadRequest("file name cannot be empty")
		return
	}

	file, err := h.fileService.Update(context.Background(), fileID, userID, req.Name, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			c.BadRequest(err.Error())
		case errors.Is(err, services.ErrFileExists):
			_ = c.JSON(409, dto.ErrorResponse{Error: err.Error()})
		default:
			respondFileError(c, err, "failed to update file")
		}
		return
	}

	_ = c.JSON(200, fileResponse(file, true))
}

func (h *FileHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid file id")
		return
	}

	if err := h.fileService.Delete(context.Background(), fileID, userID); err != nil {
		respondFileError(c, err, "failed to delete file")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "file deleted"})
}

func (h *FileHandler) GetContent(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid file id")
		return
	}

	name, content, err := h.fileService.GetContent(context.Background(), fileID, userID)
	if err != nil {
		respondFileError(c, err, "failed to get file content")
		return
	}

	_ = c.JSON(200, dto.FileContentResponse{Name: name, Content: content})
}

func (h *FileHandler) ListVersions(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid file id")
		return
	}

	versions, err := h.fileService.ListVersions(context.Background(), fileID, userID)
	if err != nil {
		respondFileError(c, err, "failed to list versions")
		return
	}

	response := make([]dto.FileVersionResponse, len(versions))
	for i, v := range versions {
		response[i] = dto.FileVersionResponse{
			ID:        v.ID,
			FileID:    v.FileID,
			Content:   v.Content,
			FileSize:  v.FileSize,
			Checksum:  v.Checksum,
			CreatedAt: v.CreatedAt,
		}
	}
	_ = c.JSON(200, response)
}

func respondFileError(c *drift.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrAccessDenied):
		c.Forbidden(err.Error())
	default:
		c.InternalServerError(fallback)
	}
}

func fileResponse(f *models.File, withContent bool) dto.FileResponse {
	resp := dto.FileResponse{
		ID:        f.ID,
		Name:      f.Name,
		FileSize:  f.FileSize,
		MimeType:  f.MimeType,
		OwnerID:   f.OwnerID,
		TeamID:    f.TeamID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if withContent {
		resp.Content = f.Content
	}
	return resp
}
