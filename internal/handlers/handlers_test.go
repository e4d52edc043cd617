package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/anonto42/chirp/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenAuthenticator accepts the decimal user id as the token.
type tokenAuthenticator struct{}

func (tokenAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	id, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return nil, errors.New("token is malformed")
	}
	return &models.User{ID: uint(id)}, nil
}

const testCookie = "loginToken"

func newTestServer() (*echo.Echo, echo.MiddlewareFunc, echo.MiddlewareFunc) {
	e := echo.New()
	e.HTTPErrorHandler = apperror.Handler(false)
	e.Validator = validators.NewValidator()
	return e,
		middleware.RequireAuth(tokenAuthenticator{}, testCookie),
		middleware.OptionalAuth(tokenAuthenticator{}, testCookie)
}

type response struct {
	Code    int
	Cookies []*http.Cookie
	Body    map[string]interface{}
}

func do(t *testing.T, e *echo.Echo, method, target, body string, userID uint) response {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != 0 {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+strconv.FormatUint(uint64(userID), 10))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Cookies: rec.Result().Cookies()}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.Body))
	}
	return res
}

func TestHealthCheck(t *testing.T) {
	e, _, _ := newTestServer()
	e.GET("/api/health", HealthCheck)

	res := do(t, e, http.MethodGet, "/api/health", "", 0)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "success", res.Body["status"])
}
