package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([^":]+)"?: ([^,}]+)`)

// Handler returns an echo.HTTPErrorHandler that maps errors to JSend responses.
// In production only operational errors expose their message.
func Handler(isProduction bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := Normalize(err)
		event := log.Error()
		if appErr.IsOperational {
			event = log.Warn()
		}
		event.Err(err).
			Int("status", appErr.StatusCode).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Msg("request failed")

		body := echo.Map{
			"status":  appErr.Status,
			"message": appErr.Message,
		}
		if !isProduction {
			body["error"] = err.Error()
		} else if !appErr.IsOperational {
			body = echo.Map{
				"status":  "error",
				"message": "Something went very wrong!",
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(appErr.StatusCode)
		} else {
			err = c.JSON(appErr.StatusCode, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to write error response")
		}
	}
}

// Normalize converts any error into an AppError, keeping the mapping for
// cast, duplicate key, validation and token errors in one place.
func Normalize(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var castErr *CastError
	if errors.As(err, &castErr) {
		path := castErr.Path
		if path == "_id" {
			path = "id"
		}
		return New(fmt.Sprintf("Invalid %s: %s.", path, castErr.Value), http.StatusBadRequest)
	}

	if mongo.IsDuplicateKeyError(err) {
		return duplicateKeyError(err.Error())
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return New("Duplicate value. Please use another value!", http.StatusBadRequest)
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return New(validationMessage(validationErrs), http.StatusBadRequest)
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return New("Your token has expired! Please log in again.", http.StatusUnauthorized)
	}
	var jwtErr *jwt.ValidationError
	if errors.As(err, &jwtErr) {
		return New("Invalid token. Please log in again!", http.StatusUnauthorized)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return New(fmt.Sprint(httpErr.Message), httpErr.Code)
	}

	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Status:     "error",
		Message:    err.Error(),
	}
}

func duplicateKeyError(msg string) *AppError {
	match := dupKeyPattern.FindStringSubmatch(msg)
	if match == nil {
		return New("Duplicate value. Please use another value!", http.StatusBadRequest)
	}
	key := strings.TrimSpace(match[1])
	value := strings.Trim(strings.TrimSpace(match[2]), `"`)
	return New(fmt.Sprintf("Duplicate %s value: %s. Please use another value!", key, value), http.StatusBadRequest)
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please provide a valid email"
	case "min", "max":
		return fmt.Sprintf("%s must be between the allowed length (%s %s)", fe.Field(), fe.Tag(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
