package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/pkg/apifeatures"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.GetUsers, optionalAuth)
	g.PATCH("/loggedInUser", h.UpdateLoggedInUser, requireAuth)
	g.DELETE("/loggedInUser", h.RemoveLoggedInUser, requireAuth)
	g.GET("/username/:username", h.GetUserByUsername, optionalAuth)
	g.GET("/:id", h.GetUser, optionalAuth)
	g.GET("/:id/followers", h.GetFollowers, optionalAuth)
	g.GET("/:id/following", h.GetFollowing, optionalAuth)
}

// GetUsers lists users using the filter, sort, fields and page query parameters
func (h *UserHandler) GetUsers(c echo.Context) error {
	features := apifeatures.New(c.QueryParams(), models.UserSchema).Filter().Sort().LimitFields().Paginate()
	if err := features.Err(); err != nil {
		return err
	}
	users, err := h.userRepository.QueryUsers(c.Request().Context(), features)
	if err != nil {
		return err
	}
	return sendList(c, users, len(users))
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := userIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.New("No user found with that ID", http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, user)
}

func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	username := c.Param("username")
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), username)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.New(fmt.Sprintf("User with username %s not found", username), http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, user)
}

func (h *UserHandler) GetFollowers(c echo.Context) error {
	id, err := userIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.userRepository.GetFollowers(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendList(c, users, len(users))
}

func (h *UserHandler) GetFollowing(c echo.Context) error {
	id, err := userIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.userRepository.GetFollowing(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendList(c, users, len(users))
}

// UpdateLoggedInUser patches the authenticated user's profile
func (h *UserHandler) UpdateLoggedInUser(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updates := req.Updates()
	if updates == nil {
		return apperror.New(noUpdateDataMessage, http.StatusBadRequest)
	}
	user, err := h.userRepository.UpdateUser(c.Request().Context(), getUserIDFromContext(c), updates)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, user)
}

// RemoveLoggedInUser deactivates the authenticated user
func (h *UserHandler) RemoveLoggedInUser(c echo.Context) error {
	if err := h.userRepository.DeactivateUser(c.Request().Context(), getUserIDFromContext(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
