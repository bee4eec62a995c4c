package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"teampulse-backend/internal/common"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// JwtAuth issues and validates the stateless session tokens. The secret is
// injected once at construction; rotating it invalidates every outstanding
// token.
type JwtAuth struct {
	Secret string
}

func NewJwtAuth(secret string) *JwtAuth {
	return &JwtAuth{Secret: secret}
}

func (j *JwtAuth) GenerateToken(userID string) (string, error) {
	claims := &common.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(common.TokenValidity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.Secret))
}

// parseToken verifies a raw header value. The bearer scheme marker is
// optional and stripped before verification.
func (j *JwtAuth) parseToken(auth string) (*jwt.Token, error) {
	raw := strings.TrimSpace(auth)
	raw = strings.TrimPrefix(raw, "Bearer ")

	return jwt.ParseWithClaims(raw, &common.JwtCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

// ValidateToken returns the user id embedded in the token. Expired tokens
// fail with jwt.ErrTokenExpired in the error chain so callers can map the
// status message; everything else is treated as malformed.
func (j *JwtAuth) ValidateToken(tokenString string) (string, error) {
	token, err := j.parseToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*common.JwtCustomClaims)
	if !ok || claims.UserID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.UserID, nil
}

func (j *JwtAuth) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &common.JwtCustomClaims{}
		},
		TokenLookupFuncs: []middleware.ValuesExtractor{
			func(c echo.Context) ([]string, error) {
				auth := c.Request().Header.Get(echo.HeaderAuthorization)
				if auth == "" {
					return nil, errors.New("missing token in Authorization header")
				}
				return []string{auth}, nil
			},
		},
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return j.parseToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is missing")
			}
			if errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	})
}

// GetUserID reads the user id out of the verified token stored on the
// request context by the middleware.
func (j *JwtAuth) GetUserID(c echo.Context) (string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return "", errors.New("no verified token on request context")
	}

	claims, ok := token.Claims.(*common.JwtCustomClaims)
	if !ok || claims.UserID == "" {
		return "", errors.New("token claims missing user id")
	}
	return claims.UserID, nil
}
