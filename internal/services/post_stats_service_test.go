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

type mockStatsRepo struct {
	created  []*models.PostStats
	updateFn func(postID primitive.ObjectID, userID uint, set bson.M) error
	summary  *models.PostStatsSummary
}

func (m *mockStatsRepo) CreateStats(_ context.Context, s *models.PostStats) error {
	m.created = append(m.created, s)
	return nil
}

func (m *mockStatsRepo) UpdateStats(_ context.Context, postID primitive.ObjectID, userID uint, set bson.M) error {
	return m.updateFn(postID, userID, set)
}

func (m *mockStatsRepo) FindUserStats(context.Context, uint, []primitive.ObjectID) ([]models.PostStats, error) {
	return nil, nil
}

func (m *mockStatsRepo) AggregatePostStats(context.Context, primitive.ObjectID) (*models.PostStatsSummary, error) {
	return m.summary, nil
}

func boolPtr(b bool) *bool { return &b }

func TestStatsCreateCountsView(t *testing.T) {
	assert := assert.New(t)
	post := &models.Post{ID: primitive.NewObjectID(), Text: "x", CreatedByID: 1}
	posts := postStore(post)
	var field string
	posts.incrementFn = func(_ primitive.ObjectID, f string, _ int) error {
		field = f
		return nil
	}
	stats := &mockStatsRepo{}
	svc := NewPostStatsService(posts, stats)

	err := svc.Create(context.Background(), 4, post.ID, models.PostStatsInput{IsViewed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(repositories.CounterViews, field)
	require.Len(t, stats.created, 1)
	assert.True(stats.created[0].IsViewed)
	assert.Equal(uint(4), stats.created[0].UserID)

	err = svc.Create(context.Background(), 4, primitive.NewObjectID(), models.PostStatsInput{})
	assert.Error(err)
}

func TestStatsUpdate(t *testing.T) {
	stats := &mockStatsRepo{updateFn: func(primitive.ObjectID, uint, bson.M) error { return repositories.ErrNotFound }}
	svc := NewPostStatsService(postStore(), stats)

	err := svc.Update(context.Background(), 1, primitive.NewObjectID(), models.PostStatsInput{})
	assertAppError(t, err, http.StatusBadRequest, noUpdateDataMessage)

	err = svc.Update(context.Background(), 1, primitive.NewObjectID(), models.PostStatsInput{IsLinkClicked: boolPtr(true)})
	assertAppError(t, err, http.StatusNotFound, "Post stats not found")
}

func TestStatsMarkCreatesWhenMissing(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID(), Text: "x", CreatedByID: 1}
	stats := &mockStatsRepo{updateFn: func(_ primitive.ObjectID, _ uint, set bson.M) error {
		assert.Equal(t, bson.M{"isFollowedFromPost": true}, set)
		return repositories.ErrNotFound
	}}
	svc := NewPostStatsService(postStore(post), stats)

	err := svc.Mark(context.Background(), 2, post.ID, models.PostStatsInput{IsFollowedFromPost: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, stats.created, 1)
	assert.True(t, stats.created[0].IsFollowedFromPost)
}

func TestStatsGetEngagement(t *testing.T) {
	assert := assert.New(t)
	post := &models.Post{ID: primitive.NewObjectID(), Text: "x", CreatedByID: 1, LikesCount: 3, RepostsCount: 2, RepliesCount: 1}
	stats := &mockStatsRepo{summary: &models.PostStatsSummary{
		ViewsCount:         100,
		DetailsViewsCount:  10,
		ProfileViewsCount:  5,
		LinkClicksCount:    2,
		PostBookmarksCount: 1,
	}}
	svc := NewPostStatsService(postStore(post), stats)

	summary, err := svc.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(3, summary.LikesCount)
	assert.Equal(2, summary.RepostCount)
	assert.Equal(1, summary.RepliesCount)
	assert.Equal(100, summary.ViewsCount)
	assert.Equal(3+2+1+10+5+2+1, summary.EngagementCount, "plain views are not engagement")
}
