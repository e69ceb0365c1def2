package handlers

import (
	"context"
	"errors"

	"github.com/Shadowjumper3000/markboard/internal/middleware"
	"github.com/Shadowjumper3000/markboard/internal/services"
	"github.com/Shadowjumper3000/markboard/internal/validation"
	"github.com/Shadowjumper3000/markboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	userService UserServiceInterface
	jwtService  JWTServiceInterface
}

func NewAuthHandler(userService UserServiceInterface, jwtService JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

func (h *AuthHandler) Signup(c *drift.Context) {
	var req dto.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := validation.ValidateStruct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		c.BadRequest(err.Error())
		return
	}

	user, err := h.userService.Register(context.Background(), req.Email, req.Password, c.Request.RemoteAddr)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			_ = c.JSON(409, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.InternalServerError("registration failed")
		return
	}

	token, err := h.jwtService.Generate(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		c.InternalServerError("failed to issue token")
		return
	}

	_ = c.JSON(201, dto.SignupResponse{
		Token: token,
		User: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			IsAdmin:   user.IsAdmin,
			CreatedAt: user.CreatedAt,
		},
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	user, err := h.userService.Authenticate(context.Background(), req.Email, req.Password, c.Request.RemoteAddr)
	if err != nil {
		c.Unauthorized("invalid email or password")
		return
	}

	token, err := h.jwtService.Generate(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		c.InternalServerError("failed to issue token")
		return
	}

	_ = c.JSON(200, dto.LoginResponse{
		Token:   token,
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
}

func (h *AuthHandler) Me(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	})
}
