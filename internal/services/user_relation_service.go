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

// UserRelationService adds and removes follows, blocks and mutes.
type UserRelationService struct {
	relations repositories.UserRelationRepository
	stats     *PostStatsService
	posts     *PostService
}

// NewUserRelationService creates a new UserRelationService
func NewUserRelationService(relations repositories.UserRelationRepository, stats *PostStatsService, posts *PostService) *UserRelationService {
	return &UserRelationService{relations: relations, stats: stats, posts: posts}
}

func relationError(err error, kind models.RelationKind) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperror.New("User not found", http.StatusNotFound)
	case errors.Is(err, repositories.ErrNotFound):
		return apperror.New(string(kind)+" relation not found", http.StatusNotFound)
	}
	return err
}

func (s *UserRelationService) Add(ctx context.Context, viewerID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error) {
	result, err := s.relations.AddRelation(ctx, &models.UserRelation{FromUserID: viewerID, ToUserID: toUserID, Kind: kind})
	if err != nil {
		return nil, relationError(err, kind)
	}
	return result, nil
}

func (s *UserRelationService) Remove(ctx context.Context, viewerID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error) {
	result, err := s.relations.RemoveRelation(ctx, viewerID, toUserID, kind)
	if err != nil {
		return nil, relationError(err, kind)
	}
	return result, nil
}

// FollowFromPost follows the post's author and marks the viewer's stats for that post.
func (s *UserRelationService) FollowFromPost(ctx context.Context, viewerID, toUserID uint, postID primitive.ObjectID) (*models.PostView, error) {
	if _, err := s.posts.GetByID(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	rel := &models.UserRelation{FromUserID: viewerID, ToUserID: toUserID, Kind: models.RelationFollow, PostID: postID.Hex()}
	if _, err := s.relations.AddRelation(ctx, rel); err != nil {
		return nil, relationError(err, models.RelationFollow)
	}
	followed := true
	if err := s.stats.Mark(ctx, viewerID, postID, models.PostStatsInput{IsFollowedFromPost: &followed}); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, viewerID, postID)
}

func (s *UserRelationService) UnfollowFromPost(ctx context.Context, viewerID, toUserID uint, postID primitive.ObjectID) (*models.PostView, error) {
	if _, err := s.posts.GetByID(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	if _, err := s.relations.RemoveRelation(ctx, viewerID, toUserID, models.RelationFollow); err != nil {
		return nil, relationError(err, models.RelationFollow)
	}
	followed := false
	if err := s.stats.Mark(ctx, viewerID, postID, models.PostStatsInput{IsFollowedFromPost: &followed}); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, viewerID, postID)
}
