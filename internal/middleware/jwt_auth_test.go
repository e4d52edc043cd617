package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	authenticateFn func(token string) (*models.User, error)
}

func (m *mockAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	return m.authenticateFn(token)
}

var validToken = &mockAuthenticator{authenticateFn: func(token string) (*models.User, error) {
	if token == "good" {
		return &models.User{ID: 42, Username: "ada"}, nil
	}
	return nil, errors.New("token is malformed")
}}

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (uint, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var seen uint
	err := mw(func(c echo.Context) error {
		seen = UserID(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return seen, err
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(validToken, "loginToken")

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		id, err := run(t, mw, req)
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "loginToken", Value: "good"})
		id, err := run(t, mw, req)
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := run(t, mw, req)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
		assert.Equal(t, "You are not logged in! Please log in to get access.", appErr.Message)
	})

	t.Run("logged out cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "loginToken", Value: "loggedout"})
		_, err := run(t, mw, req)
		assert.Error(t, err)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer bad")
		_, err := run(t, mw, req)
		assert.EqualError(t, err, "token is malformed")
	})
}

func TestOptionalAuth(t *testing.T) {
	mw := OptionalAuth(validToken, "loginToken")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	id, err := run(t, mw, req)
	require.NoError(t, err)
	assert.Zero(t, id)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bad")
	id, err = run(t, mw, req)
	require.NoError(t, err)
	assert.Zero(t, id)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	id, err = run(t, mw, req)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}
