package handlers

import (
	"errors"
	"net/http"

	"teampulse-backend/internal/common"
	"teampulse-backend/internal/config"
	"teampulse-backend/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AuthHandler struct {
	common.ServerState
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, jwt common.JWTIssuer) *AuthHandler {
	return &AuthHandler{
		ServerState: common.ServerState{
			DB:        db,
			Config:    cfg,
			JwtIssuer: jwt,
		},
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := &LoginRequest{}

	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password required")
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password required")
	}

	user, err := models.VerifyCredentials(h.DB, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		c.Logger().Errorf("Failed to verify credentials: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign in")
	}

	token, err := h.JwtIssuer.GenerateToken(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userToJSON(user),
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := getAuthenticatedUserFromJWT(c, h.JwtIssuer, h.DB)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": userToJSON(user),
	})
}
