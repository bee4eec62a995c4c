package handlers

import (
	"net/http"

	"teampulse-backend/internal/authz"
	"teampulse-backend/internal/common"
	"teampulse-backend/internal/config"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type UserHandler struct {
	common.ServerState
}

func NewUserHandler(db *gorm.DB, cfg *config.Config, jwt common.JWTIssuer) *UserHandler {
	return &UserHandler{
		ServerState: common.ServerState{
			DB:        db,
			Config:    cfg,
			JwtIssuer: jwt,
		},
	}
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	user, ok := getAuthenticatedUserFromJWT(c, h.JwtIssuer, h.DB)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	users, err := authz.VisibleUsers(h.DB, user)
	if err != nil {
		c.Logger().Errorf("Failed to list users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list users")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"users": usersToJSON(users),
	})
}
