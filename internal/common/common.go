package common

import (
	"time"

	"teampulse-backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// TokenValidity is how long an issued session token stays usable.
// Rotating the signing secret invalidates every outstanding token; there is
// no revocation list.
const TokenValidity = 7 * 24 * time.Hour

type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTIssuer interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(token string) (string, error)
	Middleware() echo.MiddlewareFunc
	GetUserID(c echo.Context) (string, error)
}

type ServerState struct {
	Echo      *echo.Echo
	Config    *config.Config
	DB        *gorm.DB
	JwtIssuer JWTIssuer
}
