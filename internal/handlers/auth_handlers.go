package handlers

import (
	"errors"
	"net/http"

	"freshtrack/internal/common"
	"freshtrack/internal/models"
	"freshtrack/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.authService.Signup(ctx, req.Email, req.Password, req.Name, models.UserRole(req.Role))
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return common.RespondError(c, http.StatusConflict, err.Error())
		}
		return respondServiceError(c, err, "Failed to create account")
	}
	return common.RespondSuccess(c, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.RespondError(c, http.StatusBadRequest, "Email and password are required")
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.RespondError(c, http.StatusUnauthorized, err.Error())
		}
		return respondServiceError(c, err, "Failed to log in")
	}
	return common.RespondSuccess(c, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}
