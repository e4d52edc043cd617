package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	userKey   = "user"
	userIDKey = "userID"
)

// Authenticator resolves a token to its user. *services.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// tokenFromRequest reads "Authorization: Bearer <token>", falling back to the login cookie.
func tokenFromRequest(c echo.Context, cookieName string) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" && cookie.Value != "loggedout" {
		return cookie.Value
	}
	return ""
}

func setUser(c echo.Context, user *models.User) {
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID)
}

// RequireAuth rejects requests without a valid token and stores the user in the context.
func RequireAuth(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c, cookieName)
			if token == "" {
				return apperror.New("You are not logged in! Please log in to get access.", http.StatusUnauthorized)
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			setUser(c, user)
			return next(c)
		}
	}
}

// OptionalAuth stores the user when a valid token is present and never rejects.
func OptionalAuth(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := tokenFromRequest(c, cookieName); token != "" {
				user, err := auth.Authenticate(c.Request().Context(), token)
				if err == nil {
					setUser(c, user)
				} else {
					log.Debug().Err(err).Msg("ignoring invalid token on public route")
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

// User returns the authenticated user, or nil.
func User(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}
