package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

func TestNewStatus(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("fail", New("bad", http.StatusBadRequest).Status)
	assert.Equal("fail", New("missing", http.StatusNotFound).Status)
	assert.Equal("error", New("boom", http.StatusInternalServerError).Status)
	assert.True(New("x", http.StatusBadRequest).IsOperational)
}

func TestNormalizeCastError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewCastError("_id", "abc", errors.New("bad hex")))
	appErr := Normalize(err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Invalid id: abc.", appErr.Message)
}

func TestNormalizeDuplicateKey(t *testing.T) {
	err := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.users index: username_1 dup key: { username: "bob" }`,
		}},
	}
	appErr := Normalize(err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Duplicate username value: bob. Please use another value!", appErr.Message)

	appErr = Normalize(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey))
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Duplicate value. Please use another value!", appErr.Message)
}

func TestNormalizeValidation(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(req{Email: "nope"})
	appErr := Normalize(err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Please provide a valid email", appErr.Message)
}

func TestNormalizeTokens(t *testing.T) {
	secret := []byte("secret")
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := expired.SignedString(secret)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.Error(t, err)
	appErr := Normalize(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	assert.Equal(t, "Your token has expired! Please log in again.", appErr.Message)

	_, err = jwt.Parse("not-a-token", func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.Error(t, err)
	appErr = Normalize(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	assert.Equal(t, "Invalid token. Please log in again!", appErr.Message)
}

func TestNormalizeUnexpected(t *testing.T) {
	appErr := Normalize(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.False(t, appErr.IsOperational)
}

func serve(t *testing.T, isProduction bool, err error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Handler(isProduction)(err, c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHandlerProductionHidesUnexpectedErrors(t *testing.T) {
	code, body := serve(t, true, errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Something went very wrong!", body["message"])
	assert.NotContains(t, body, "error")
}

func TestHandlerProductionShowsOperationalErrors(t *testing.T) {
	code, body := serve(t, true, New("Post is not liked", http.StatusNotFound))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "Post is not liked", body["message"])
}

func TestHandlerDevelopmentIncludesRawError(t *testing.T) {
	code, body := serve(t, false, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "Method Not Allowed", body["message"])
	assert.Contains(t, body, "error")
}
