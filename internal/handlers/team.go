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

type TeamHandler struct {
	teamService TeamServiceInterface
}

func NewTeamHandler(teamService TeamServiceInterface) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teams, err := h.teamService.GetUserTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get teams")
		return
	}

	_ = c.JSON(200, teamResponses(teams))
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	team, err := h.teamService.Create(context.Background(), req.Name, req.Description, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamQuotaExceeded):
			c.Forbidden(err.Error())
		case errors.Is(err, services.ErrTeamExists):
			_ = c.JSON(409, dto.ErrorResponse{Error: err.Error()})
		default:
			c.InternalServerError("failed to create team")
		}
		return
	}

	_ = c.JSON(201, teamResponse(team))
}

func (h *TeamHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	team, err := h.teamService.GetDetails(context.Background(), teamID, userID)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		c.InternalServerError("failed to get team")
		return
	}

	_ = c.JSON(200, teamResponse(team))
}

func (h *TeamHandler) Join(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if _, err := h.teamService.Join(context.Background(), teamID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound(err.Error())
		case errors.Is(err, services.ErrAlreadyMember):
			_ = c.JSON(409, dto.ErrorResponse{Error: err.Error()})
		default:
			c.InternalServerError("failed to join team")
		}
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "joined team"})
}

func (h *TeamHandler) Leave(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Leave(context.Background(), teamID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound(err.Error())
		case errors.Is(err, services.ErrNotMember):
			c.BadRequest(err.Error())
		case errors.Is(err, services.ErrOwnerCannotLeave):
			c.Forbidden(err.Error())
		default:
			c.InternalServerError("failed to leave team")
		}
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "left team"})
}

func (h *TeamHandler) Disband(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Disband(context.Background(), teamID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound(err.Error())
		case errors.Is(err, services.ErrNotTeamOwner):
			c.Forbidden(err.Error())
		case errors.Is(err, services.ErrTeamHasFiles):
			_ = c.JSON(409, dto.ErrorResponse{Error: err.Error()})
		default:
			c.InternalServerError("failed to disband team")
		}
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "team disbanded"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	members, err := h.teamService.GetMembers(context.Background(), teamID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotMember) {
			c.Forbidden(err.Error())
			return
		}
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.TeamMemberResponse{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if m.User != nil {
			response[i].Email = m.User.Email
		}
	}
	_ = c.JSON(200, response)
}

func (h *TeamHandler) Kick(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	var req dto.KickMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.UserID == uuid.Nil {
		c.BadRequest("user_id is required")
		return
	}

	if err := h.teamService.Kick(context.Background(), teamID, req.UserID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound(err.Error())
		case errors.Is(err, services.ErrInsufficientRole):
			c.Forbidden(err.Error())
		case errors.Is(err, services.ErrCannotKickOwner):
			c.Forbidden(err.Error())
		case errors.Is(err, services.ErrNotMember):
			c.BadRequest(err.Error())
		default:
			c.InternalServerError("failed to kick member")
		}
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "member removed"})
}

func (h *TeamHandler) Available(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teams, err := h.teamService.GetAvailableTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get available teams")
		return
	}

	_ = c.JSON(200, teamResponses(teams))
}

func (h *TeamHandler) Count(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	count, err := h.teamService.CountUserTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to count teams")
		return
	}

	_ = c.JSON(200, dto.TeamCountResponse{Count: count})
}

func teamResponse(t *models.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		OwnerID:     t.OwnerID,
		Role:        t.Role,
		MemberCount: t.MemberCount,
		FileCount:   t.FileCount,
		CreatedAt:   t.CreatedAt,
	}
}

func teamResponses(teams []models.Team) []dto.TeamResponse {
	response := make([]dto.TeamResponse, len(teams))
	for i := range teams {
		response[i] = teamResponse(&teams[i])
	}
	return response
}
