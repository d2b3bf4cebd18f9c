package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, email, password string) (model.TokenPair, error)
	Login(ctx context.Context, email, password string) (model.TokenPair, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a user account and returns a session.
func (h *Auth) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewValidationError("invalid json body"))
		return
	}

	tokens, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: registration completed",
		"email", req.Email)

	c.JSON(http.StatusCreated, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Login verifies credentials and returns a session.
func (h *Auth) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewValidationError("invalid json body"))
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: login completed",
		"email", req.Email)

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Refresh rotates a refresh token and returns a new pair.
func (h *Auth) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		handleError(c, model.NewValidationError("invalid json body"))
		return
	}

	access, refresh, err := h.tokenService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		// Every refresh failure looks the same to the client.
		handleError(c, model.ErrInvalidToken)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Logout revokes a refresh token.
func (h *Auth) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		handleError(c, model.NewValidationError("invalid json body"))
		return
	}

	if err := h.tokenService.RevokeByToken(c.Request.Context(), req.RefreshToken); err != nil {
		handleError(c, model.ErrInvalidToken)
		return
	}

	c.Status(http.StatusNoContent)
}
