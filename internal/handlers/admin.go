package handlers

import (
	"context"
	"strconv"

	"github.com/Shadowjumper3000/markboard/internal/services"
	"github.com/Shadowjumper3000/markboard/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

// AdminHandler serves the admin dashboard views. Routes are gated by the
// admin middleware, so handlers only shape data.
type AdminHandler struct {
	adminService    AdminServiceInterface
	activityService ActivityServiceInterface
}

func NewAdminHandler(adminService AdminServiceInterface, activityService ActivityServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		activityService: activityService,
	}
}

func (h *AdminHandler) ListUsers(c *drift.Context) {
	users, err := h.adminService.ListUsers(context.Background())
	if err != nil {
		c.InternalServerError("failed to list users")
		return
	}

	response := make([]dto.AdminUserResponse, len(users))
	for i, u := range users {
		response[i] = dto.AdminUserResponse{
			ID:        u.ID,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			FileCount: u.FileCount,
			TeamCount: u.TeamCount,
			LastLogin: u.LastLogin,
			CreatedAt: u.CreatedAt,
		}
	}
	_ = c.JSON(200, response)
}

func (h *AdminHandler) ListTeams(c *drift.Context) {
	teams, err := h.adminService.ListTeams(context.Background())
	if err != nil {
		c.InternalServerError("failed to list teams")
		return
	}

	response := make([]dto.AdminTeamResponse, len(teams))
	for i, t := range teams {
		response[i] = dto.AdminTeamResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			OwnerID:     t.OwnerID,
			OwnerEmail:  t.OwnerEmail,
			MemberCount: t.MemberCount,
			FileCount:   t.FileCount,
			CreatedAt:   t.CreatedAt,
		}
	}
	_ = c.JSON(200, response)
}

func (h *AdminHandler) Stats(c *drift.Context) {
	stats, err := h.adminService.Stats(context.Background())
	if err != nil {
		c.InternalServerError("failed to get stats")
		return
	}

	_ = c.JSON(200, dto.StatsResponse{
		TotalUsers:     stats.TotalUsers,
		ActiveUsers:    stats.ActiveUsers,
		TotalFiles:     stats.TotalFiles,
		TotalTeams:     stats.TotalTeams,
		RecentActivity: stats.RecentActivity,
	})
}

func (h *AdminHandler) Activity(c *drift.Context) {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 1000 {
			c.BadRequest("limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	entries, err := h.activityService.Query(context.Background(), services.ActivityFilter{Limit: limit})
	if err != nil {
		c.InternalServerError("failed to get activity")
		return
	}

	response := make([]dto.ActivityResponse, len(entries))
	for i, e := range entries {
		response[i] = dto.ActivityResponse{
			ID:           e.ID,
			UserID:       e.UserID,
			UserEmail:    e.UserEmail,
			Action:       e.Action,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			Details:      e.Details,
			CreatedAt:    e.CreatedAt,
		}
	}
	_ = c.JSON(200, response)
}
