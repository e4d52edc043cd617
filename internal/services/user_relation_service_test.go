package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRelationRepo struct {
	addFn    func(rel *models.UserRelation) (*models.UserRelationResult, error)
	removeFn func(from, to uint, kind models.RelationKind) (*models.UserRelationResult, error)
}

func (m *mockRelationRepo) AddRelation(_ context.Context, rel *models.UserRelation) (*models.UserRelationResult, error) {
	return m.addFn(rel)
}

func (m *mockRelationRepo) RemoveRelation(_ context.Context, from, to uint, kind models.RelationKind) (*models.UserRelationResult, error) {
	return m.removeFn(from, to, kind)
}

func TestRelationErrors(t *testing.T) {
	relations := &mockRelationRepo{
		addFn: func(*models.UserRelation) (*models.UserRelationResult, error) {
			return nil, repositories.ErrUserNotFound
		},
		removeFn: func(uint, uint, models.RelationKind) (*models.UserRelationResult, error) {
			return nil, repositories.ErrNotFound
		},
	}
	svc := NewUserRelationService(relations, nil, nil)

	_, err := svc.Add(context.Background(), 1, 99, models.RelationFollow)
	assertAppError(t, err, http.StatusNotFound, "User not found")

	_, err = svc.Remove(context.Background(), 1, 2, models.RelationMute)
	assertAppError(t, err, http.StatusNotFound, string(models.RelationMute)+" relation not found")
}

func TestRelationAdd(t *testing.T) {
	want := &models.UserRelationResult{
		LoggedInUser: &models.User{ID: 1, FollowingCount: 1},
		TargetUser:   &models.User{ID: 2, FollowersCount: 1},
	}
	relations := &mockRelationRepo{addFn: func(rel *models.UserRelation) (*models.UserRelationResult, error) {
		assert.Equal(t, models.UserRelation{FromUserID: 1, ToUserID: 2, Kind: models.RelationBlock}, *rel)
		return want, nil
	}}
	svc := NewUserRelationService(relations, nil, nil)

	got, err := svc.Add(context.Background(), 1, 2, models.RelationBlock)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestFollowFromPost(t *testing.T) {
	assert := assert.New(t)
	post := &models.Post{ID: primitive.NewObjectID(), Text: "x", CreatedByID: 2}
	posts := postStore(post)
	var marked bson.M
	stats := &mockStatsRepo{updateFn: func(_ primitive.ObjectID, _ uint, set bson.M) error {
		marked = set
		return nil
	}}
	var rel *models.UserRelation
	relations := &mockRelationRepo{addFn: func(r *models.UserRelation) (*models.UserRelationResult, error) {
		rel = r
		return &models.UserRelationResult{}, nil
	}}
	postSvc := newTestPostService(posts, &mockEngagement{}, testAuthors)
	svc := NewUserRelationService(relations, NewPostStatsService(posts, stats), postSvc)

	view, err := svc.FollowFromPost(context.Background(), 1, 2, post.ID)
	require.NoError(t, err)
	assert.Equal(post.ID, view.ID)
	assert.Equal(post.ID.Hex(), rel.PostID)
	assert.Equal(models.RelationFollow, rel.Kind)
	assert.Equal(bson.M{"isFollowedFromPost": true}, marked)
}
