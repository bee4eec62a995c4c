package handlers

import (
	"net/http"

	"teampulse-backend/internal/authz"
	"teampulse-backend/internal/common"
	"teampulse-backend/internal/config"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type TeamHandler struct {
	common.ServerState
}

func NewTeamHandler(db *gorm.DB, cfg *config.Config, jwt common.JWTIssuer) *TeamHandler {
	return &TeamHandler{
		ServerState: common.ServerState{
			DB:        db,
			Config:    cfg,
			JwtIssuer: jwt,
		},
	}
}

func (h *TeamHandler) ListTeams(c echo.Context) error {
	user, ok := getAuthenticatedUserFromJWT(c, h.JwtIssuer, h.DB)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	teams, err := authz.VisibleTeams(h.DB, user)
	if err != nil {
		c.Logger().Errorf("Failed to list teams: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list teams")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"teams": teamsToJSON(teams),
	})
}
