package services

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apifeatures"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockPostRepo struct {
	queryFn       func(f *apifeatures.APIFeatures) ([]models.Post, error)
	getByIDFn     func(id primitive.ObjectID) (*models.Post, error)
	getByIDsFn    func(ids []primitive.ObjectID) ([]models.Post, error)
	createFn      func(p *models.Post) error
	createManyFn  func(ps []*models.Post) error
	updateOwnedFn func(id primitive.ObjectID, owner uint, set bson.M) (*models.Post, error)
	deleteOwnedFn func(id primitive.ObjectID, owner uint) error
	incrementFn   func(id primitive.ObjectID, field string, delta int) error
	pollVoteFn    func(id primitive.ObjectID, idx int) error
	closePollsFn  func(now time.Time) (int64, error)
}

func (m *mockPostRepo) Query(_ context.Context, f *apifeatures.APIFeatures) ([]models.Post, error) {
	return m.queryFn(f)
}

func (m *mockPostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	return m.getByIDFn(id)
}

func (m *mockPostRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if m.getByIDsFn == nil {
		return nil, nil
	}
	return m.getByIDsFn(ids)
}

func (m *mockPostRepo) Create(_ context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if m.createFn == nil {
		return nil
	}
	return m.createFn(p)
}

func (m *mockPostRepo) CreateMany(_ context.Context, ps []*models.Post) error {
	for _, p := range ps {
		p.ID = primitive.NewObjectID()
	}
	return m.createManyFn(ps)
}

func (m *mockPostRepo) UpdateOwned(_ context.Context, id primitive.ObjectID, owner uint, set bson.M) (*models.Post, error) {
	return m.updateOwnedFn(id, owner, set)
}

func (m *mockPostRepo) DeleteOwned(_ context.Context, id primitive.ObjectID, owner uint) error {
	return m.deleteOwnedFn(id, owner)
}

func (m *mockPostRepo) IncrementCounter(_ context.Context, id primitive.ObjectID, field string, delta int) error {
	if m.incrementFn == nil {
		return nil
	}
	return m.incrementFn(id, field, delta)
}

func (m *mockPostRepo) IncrementPollVote(_ context.Context, id primitive.ObjectID, idx int) error {
	return m.pollVoteFn(id, idx)
}

func (m *mockPostRepo) CloseExpiredPolls(_ context.Context, now time.Time) (int64, error) {
	return m.closePollsFn(now)
}

// mockEngagement serves every engagement lookup and write used by the services.
type mockEngagement struct {
	reposted, liked, bookmarked []primitive.ObjectID
	stats                       []models.PostStats
	votes                       []models.PollVote
	lookupErr                   error

	lookedUp       [][]primitive.ObjectID
	createLikeFn   func(l *models.PostLike) error
	deleteLikeFn   func(postID primitive.ObjectID, userID uint) error
	createRepostFn func(r *models.Repost) error
	deleteRepostFn func(postID primitive.ObjectID, userID uint) error
	deleteMarkFn   func(postID primitive.ObjectID, userID uint) error
	bookmarkIDs    []primitive.ObjectID
}

func (m *mockEngagement) RepostedPostIDs(_ context.Context, _ uint, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.lookedUp = append(m.lookedUp, ids)
	return m.reposted, m.lookupErr
}

func (m *mockEngagement) LikedPostIDs(_ context.Context, _ uint, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return m.liked, nil
}

func (m *mockEngagement) BookmarkedPostIDs(_ context.Context, _ uint, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return m.bookmarked, nil
}

func (m *mockEngagement) FindUserStats(_ context.Context, _ uint, ids []primitive.ObjectID) ([]models.PostStats, error) {
	return m.stats, nil
}

func (m *mockEngagement) FindUserVotes(_ context.Context, _ uint, ids []primitive.ObjectID) ([]models.PollVote, error) {
	return m.votes, nil
}

func (m *mockEngagement) CreateLike(_ context.Context, l *models.PostLike) error {
	if m.createLikeFn == nil {
		return nil
	}
	return m.createLikeFn(l)
}

func (m *mockEngagement) DeleteLike(_ context.Context, postID primitive.ObjectID, userID uint) error {
	return m.deleteLikeFn(postID, userID)
}

func (m *mockEngagement) CreateRepost(_ context.Context, r *models.Repost) error {
	r.CreatedAt = time.Now()
	if m.createRepostFn == nil {
		return nil
	}
	return m.createRepostFn(r)
}

func (m *mockEngagement) DeleteRepost(_ context.Context, postID primitive.ObjectID, userID uint) error {
	return m.deleteRepostFn(postID, userID)
}

func (m *mockEngagement) CreateBookmark(_ context.Context, _ *models.PostBookmark) error {
	return nil
}

func (m *mockEngagement) DeleteBookmark(_ context.Context, postID primitive.ObjectID, userID uint) error {
	return m.deleteMarkFn(postID, userID)
}

func (m *mockEngagement) ListBookmarkedPostIDs(_ context.Context, _ uint) ([]primitive.ObjectID, error) {
	return m.bookmarkIDs, nil
}

type mockUsers map[uint]models.MiniUser

func (m mockUsers) GetMiniUsers(_ context.Context, ids []uint) (map[uint]models.MiniUser, error) {
	out := map[uint]models.MiniUser{}
	for _, id := range ids {
		if u, ok := m[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func newTestPostService(posts *mockPostRepo, eng *mockEngagement, users mockUsers) *PostService {
	return NewPostService(PostServiceDeps{
		Posts:     posts,
		Likes:     eng,
		Reposts:   eng,
		Bookmarks: eng,
		Votes:     eng,
		Users:     users,
		Resolver:  NewActionStateResolver(eng, eng, eng, eng),
	})
}
