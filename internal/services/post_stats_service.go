package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStatsService records and aggregates viewer interactions.
type PostStatsService struct {
	posts repositories.PostRepository
	stats repositories.PostStatsRepository
}

// NewPostStatsService creates a new PostStatsService
func NewPostStatsService(posts repositories.PostRepository, stats repositories.PostStatsRepository) *PostStatsService {
	return &PostStatsService{posts: posts, stats: stats}
}

// Create stores the viewer's first stats document for a post. A view counts
// towards the post's viewsCount.
func (s *PostStatsService) Create(ctx context.Context, viewerID uint, postID primitive.ObjectID, in models.PostStatsInput) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return postNotFound(postID)
		}
		return err
	}
	stats := &models.PostStats{PostID: postID, UserID: viewerID}
	in.Apply(stats)
	if err := s.stats.CreateStats(ctx, stats); err != nil {
		return err
	}
	if stats.IsViewed {
		return s.posts.IncrementCounter(ctx, postID, repositories.CounterViews, 1)
	}
	return nil
}

// Update sets the sent flags on the viewer's existing stats document.
func (s *PostStatsService) Update(ctx context.Context, viewerID uint, postID primitive.ObjectID, in models.PostStatsInput) error {
	set := in.SetFields()
	if len(set) == 0 {
		return apperror.New(noUpdateDataMessage, http.StatusBadRequest)
	}
	err := s.stats.UpdateStats(ctx, postID, viewerID, set)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.New("Post stats not found", http.StatusNotFound)
	}
	return err
}

// Mark sets one set of flags, creating the stats document when the viewer has none.
func (s *PostStatsService) Mark(ctx context.Context, viewerID uint, postID primitive.ObjectID, in models.PostStatsInput) error {
	err := s.stats.UpdateStats(ctx, postID, viewerID, in.SetFields())
	if errors.Is(err, repositories.ErrNotFound) {
		return s.Create(ctx, viewerID, postID, in)
	}
	return err
}

// Get aggregates every viewer's stats of a post, adding the post's own counters.
func (s *PostStatsService) Get(ctx context.Context, postID primitive.ObjectID) (*models.PostStatsSummary, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, postNotFound(postID)
	}
	if err != nil {
		return nil, err
	}
	summary, err := s.stats.AggregatePostStats(ctx, postID)
	if err != nil {
		return nil, err
	}
	summary.LikesCount = post.LikesCount
	summary.RepostCount = post.RepostsCount
	summary.RepliesCount = post.RepliesCount
	summary.EngagementCount = summary.LikesCount +
		summary.RepostCount +
		summary.RepliesCount +
		summary.DetailsViewsCount +
		summary.ProfileViewsCount +
		summary.FollowFromPostCount +
		summary.HashTagClicksCount +
		summary.LinkClicksCount +
		summary.PostLinkCopyCount +
		summary.PostSharedCount +
		summary.PostViaMsgCount +
		summary.PostBookmarksCount
	return summary, nil
}
