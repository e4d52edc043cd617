package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRelationService interface {
	Add(ctx context.Context, viewerID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error)
	Remove(ctx context.Context, viewerID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error)
	FollowFromPost(ctx context.Context, viewerID, toUserID uint, postID primitive.ObjectID) (*models.PostView, error)
	UnfollowFromPost(ctx context.Context, viewerID, toUserID uint, postID primitive.ObjectID) (*models.PostView, error)
}

// UserRelationHandler handles follow, block and mute requests
type UserRelationHandler struct {
	relations UserRelationService
}

// NewUserRelationHandler creates a new UserRelationHandler
func NewUserRelationHandler(relations UserRelationService) *UserRelationHandler {
	return &UserRelationHandler{relations: relations}
}

// RegisterUserRelationRoutes registers relation routes. Every route requires authentication.
func (h *UserRelationHandler) RegisterUserRelationRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	for path, kind := range map[string]models.RelationKind{
		"/:id/follow": models.RelationFollow,
		"/:id/block":  models.RelationBlock,
		"/:id/mute":   models.RelationMute,
	} {
		g.POST(path, h.relation(kind, true), requireAuth)
		g.DELETE(path, h.relation(kind, false), requireAuth)
	}
	g.POST("/:id/follow/:postId/fromPost", h.FollowFromPost, requireAuth)
	g.DELETE("/:id/follow/:postId/fromPost", h.UnfollowFromPost, requireAuth)
}

func (h *UserRelationHandler) relation(kind models.RelationKind, add bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		toUserID, err := userIDParam(c, "id")
		if err != nil {
			return err
		}
		ctx, viewerID := c.Request().Context(), getUserIDFromContext(c)

		var result *models.UserRelationResult
		if add {
			result, err = h.relations.Add(ctx, viewerID, toUserID, kind)
		} else {
			result, err = h.relations.Remove(ctx, viewerID, toUserID, kind)
		}
		if err != nil {
			return err
		}
		return sendSuccess(c, http.StatusOK, result)
	}
}

func (h *UserRelationHandler) FollowFromPost(c echo.Context) error {
	toUserID, postID, err := relationFromPostParams(c)
	if err != nil {
		return err
	}
	view, err := h.relations.FollowFromPost(c.Request().Context(), getUserIDFromContext(c), toUserID, postID)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, view)
}

func (h *UserRelationHandler) UnfollowFromPost(c echo.Context) error {
	toUserID, postID, err := relationFromPostParams(c)
	if err != nil {
		return err
	}
	view, err := h.relations.UnfollowFromPost(c.Request().Context(), getUserIDFromContext(c), toUserID, postID)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, view)
}

func relationFromPostParams(c echo.Context) (uint, primitive.ObjectID, error) {
	toUserID, err := userIDParam(c, "id")
	if err != nil {
		return 0, primitive.NilObjectID, err
	}
	postID, err := objectIDParam(c, "postId")
	if err != nil {
		return 0, primitive.NilObjectID, err
	}
	return toUserID, postID, nil
}
