package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService interface {
	Query(ctx context.Context, viewerID uint, params url.Values) ([]models.PostView, error)
	GetByID(ctx context.Context, viewerID uint, id primitive.ObjectID) (*models.PostView, error)
	Add(ctx context.Context, viewerID uint, in *models.PostInput) (*models.PostView, error)
	AddThread(ctx context.Context, viewerID uint, ins []models.PostInput) (*models.PostView, error)
	AddReply(ctx context.Context, viewerID uint, parentID primitive.ObjectID, in *models.PostInput) (*models.ReplyResult, error)
	Quote(ctx context.Context, viewerID uint, quotedID primitive.ObjectID, in *models.PostInput) (interface{}, error)
	Update(ctx context.Context, viewerID uint, id primitive.ObjectID, req models.UpdatePostRequest) (*models.PostView, error)
	Remove(ctx context.Context, viewerID uint, id primitive.ObjectID) error
	AddRepost(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.RepostResult, error)
	RemoveRepost(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error)
	AddLike(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error)
	RemoveLike(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error)
	AddBookmark(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error)
	RemoveBookmark(ctx context.Context, viewerID uint, postID primitive.ObjectID) (*models.PostView, error)
	Bookmarked(ctx context.Context, viewerID uint) ([]models.PostView, error)
	QueryPromotional(ctx context.Context, params url.Values) ([]models.PromotionalPostView, error)
	AddPromotional(ctx context.Context, viewerID uint, in *models.PromotionalPostInput) (*models.PromotionalPost, error)
}

type PollService interface {
	SetPollVote(ctx context.Context, postID primitive.ObjectID, optionIdx int, userID uint) (*models.PollVoteResult, error)
}

type PostStatsService interface {
	Create(ctx context.Context, viewerID uint, postID primitive.ObjectID, in models.PostStatsInput) error
	Update(ctx context.Context, viewerID uint, postID primitive.ObjectID, in models.PostStatsInput) error
	Get(ctx context.Context, postID primitive.ObjectID) (*models.PostStatsSummary, error)
}

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts PostService
	polls PollService
	stats PostStatsService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostService, polls PollService, stats PostStatsService) *PostHandler {
	return &PostHandler{posts: posts, polls: polls, stats: stats}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.GetPosts, optionalAuth)
	g.GET("/bookmarked", h.GetBookmarkedPosts, requireAuth)
	g.GET("/promotional", h.GetPromotionalPosts, optionalAuth)
	g.POST("/promotional", h.AddPromotionalPost, requireAuth)
	g.GET("/:id", h.GetPost, optionalAuth)

	g.POST("", h.AddPost, requireAuth)
	g.POST("/thread", h.AddPostThread, requireAuth)
	g.POST("/:id/reply", h.AddReply, requireAuth)
	g.POST("/:id/quote", h.QuotePost, requireAuth)
	g.PATCH("/:id", h.UpdatePost, requireAuth)
	g.DELETE("/:id", h.RemovePost, requireAuth)

	g.POST("/:id/repost", h.Repost, requireAuth)
	g.DELETE("/:id/repost", h.RemoveRepost, requireAuth)
	g.POST("/:id/like", h.LikePost, requireAuth)
	g.DELETE("/:id/like", h.UnlikePost, requireAuth)
	g.POST("/:id/bookmark", h.BookmarkPost, requireAuth)
	g.DELETE("/:id/bookmark", h.RemoveBookmark, requireAuth)
	g.POST("/:id/poll/vote", h.SetPollVote, requireAuth)

	g.GET("/:id/stats", h.GetPostStats, requireAuth)
	g.POST("/:id/stats", h.CreatePostStats, requireAuth)
	g.PATCH("/:id/stats", h.UpdatePostStats, requireAuth)
}

// GetPosts lists posts using the filter, sort, fields and page query parameters
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.posts.Query(c.Request().Context(), getUserIDFromContext(c), c.QueryParams())
	if err != nil {
		return err
	}
	return sendList(c, posts, len(posts))
}

func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.GetByID(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, post)
}

func (h *PostHandler) AddPost(c echo.Context) error {
	var in models.PostInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	post, err := h.posts.Add(c.Request().Context(), getUserIDFromContext(c), &in)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusCreated, post)
}

// AddPostThread takes a JSON array of posts and stores them in order
func (h *PostHandler) AddPostThread(c echo.Context) error {
	var ins []models.PostInput
	if err := c.Bind(&ins); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	for i := range ins {
		if err := c.Validate(&ins[i]); err != nil {
			return err
		}
	}
	post, err := h.posts.AddThread(c.Request().Context(), getUserIDFromContext(c), ins)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusCreated, post)
}

func (h *PostHandler) AddReply(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var in models.PostInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	result, err := h.posts.AddReply(c.Request().Context(), getUserIDFromContext(c), id, &in)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusCreated, result)
}

// QuotePost quotes a post; an empty body reposts it instead
func (h *PostHandler) QuotePost(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var in models.PostInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	result, err := h.posts.Quote(c.Request().Context(), getUserIDFromContext(c), id, &in)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusCreated, result)
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.Request().Context(), getUserIDFromContext(c), id, req)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, post)
}

func (h *PostHandler) RemovePost(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.Remove(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// engagement wraps the id parsing shared by the toggle routes.
func (h *PostHandler) engagement(c echo.Context, code int, fn func(ctx context.Context, viewerID uint, id primitive.ObjectID) (interface{}, error)) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	data, err := fn(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return err
	}
	return sendSuccess(c, code, data)
}

func (h *PostHandler) Repost(c echo.Context) error {
	return h.engagement(c, http.StatusCreated, func(ctx context.Context, viewerID uint, id primitive.ObjectID) (interface{}, error) {
		return h.posts.AddRepost(ctx, viewerID, id)
	})
}

func (h *PostHandler) RemoveRepost(c echo.Context) error {
	return h.engagement(c, http.StatusOK, func(ctx context.Context, viewerID uint, id primitive.ObjectID) (interface{}, error) {
		return h.posts.RemoveRepost(ctx, viewerID, id)
	})
}

func (h *PostHandler) LikePost(c echo.Context) error {
	return h.engagement(c, http.StatusCreated, func(ctx context.Context, viewerID uint, id primitive.ObjectID) (interface{}, error) {
		return h.posts.AddLike(ctx, viewerID, id)
	})
}

func (h *PostHandler) UnlikePost(c echo.Context) error {
	return h.engagement(c, http.StatusOK, func(ctx context.Context, viewerID uint, id primitive.ObjectID) (interface{}, error) {
		return h.posts.RemoveLike(ctx, viewerID, id)
	})
}

func (h *PostHandler) BookmarkPost(c echo.Context) error {
	return h.engagement(c, http.StatusCreated, func(ctx context.Context, viewerID uint, id primitive.ObjectID) (interface{}, error) {
		return h.posts.AddBookmark(ctx, viewerID, id)
	})
}

func (h *PostHandler) RemoveBookmark(c echo.Context) error {
	return h.engagement(c, http.StatusOK, func(ctx context.Context, viewerID uint, id primitive.ObjectID) (interface{}, error) {
		return h.posts.RemoveBookmark(ctx, viewerID, id)
	})
}

func (h *PostHandler) GetBookmarkedPosts(c echo.Context) error {
	posts, err := h.posts.Bookmarked(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return err
	}
	return sendList(c, posts, len(posts))
}

// SetPollVote records the vote and responds with the refreshed post
func (h *PostHandler) SetPollVote(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.PollVoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, viewerID := c.Request().Context(), getUserIDFromContext(c)
	if _, err := h.polls.SetPollVote(ctx, id, *req.OptionIdx, viewerID); err != nil {
		return err
	}
	post, err := h.posts.GetByID(ctx, viewerID, id)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, post)
}

func (h *PostHandler) GetPostStats(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.stats.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusOK, stats)
}

func (h *PostHandler) CreatePostStats(c echo.Context) error {
	return h.writeStats(c, h.stats.Create)
}

func (h *PostHandler) UpdatePostStats(c echo.Context) error {
	return h.writeStats(c, h.stats.Update)
}

func (h *PostHandler) writeStats(c echo.Context, write func(ctx context.Context, viewerID uint, postID primitive.ObjectID, in models.PostStatsInput) error) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var in models.PostStatsInput
	if err := c.Bind(&in); err != nil {
		return apperror.New("Invalid request payload", http.StatusBadRequest)
	}
	if err := write(c.Request().Context(), getUserIDFromContext(c), id, in); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) GetPromotionalPosts(c echo.Context) error {
	posts, err := h.posts.QueryPromotional(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return sendList(c, posts, len(posts))
}

func (h *PostHandler) AddPromotionalPost(c echo.Context) error {
	var in models.PromotionalPostInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	post, err := h.posts.AddPromotional(c.Request().Context(), getUserIDFromContext(c), &in)
	if err != nil {
		return err
	}
	return sendSuccess(c, http.StatusCreated, post)
}
