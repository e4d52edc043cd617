package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const noUpdateDataMessage = "No data received in the request. Please provide some properties to update."

func sendSuccess(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, echo.Map{
		"status": "success",
		"data":   data,
	})
}

func sendList(c echo.Context, data interface{}, results int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "success",
		"requestedAt": time.Now().UTC().Format(time.RFC3339),
		"results":     results,
		"data":        data,
	})
}

// getUserIDFromContext returns the authenticated user's id, 0 when anonymous.
func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserID(c)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

func objectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	value := c.Param(name)
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		path := name
		if name == "id" {
			path = "_id"
		}
		return primitive.NilObjectID, apperror.NewCastError(path, value, err)
	}
	return id, nil
}

func userIDParam(c echo.Context, name string) (uint, error) {
	value := c.Param(name)
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.NewCastError(name, value, err)
	}
	return uint(id), nil
}
