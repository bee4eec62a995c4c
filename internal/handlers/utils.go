package handlers

import (
	"teampulse-backend/internal/common"
	"teampulse-backend/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// getAuthenticatedUserFromJWT resolves the request's verified token into a
// user record. Returns nil and false when the token's subject no longer
// exists.
func getAuthenticatedUserFromJWT(c echo.Context, jwtIssuer common.JWTIssuer, db *gorm.DB) (*models.User, bool) {
	userID, err := jwtIssuer.GetUserID(c)
	if err != nil {
		return nil, false
	}

	user, err := models.GetUserByID(db, userID)
	if err != nil {
		return nil, false
	}

	return user, true
}
