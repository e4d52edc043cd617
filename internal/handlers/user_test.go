package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/pkg/apifeatures"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockUserRepo struct {
	repositories.UserRepository
	getUserByIDFn func(id uint) (*models.User, error)
	queryUsersFn  func(f *apifeatures.APIFeatures) ([]models.User, error)
	updateUserFn  func(id uint, updates map[string]interface{}) (*models.User, error)
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	return m.getUserByIDFn(id)
}

func (m *mockUserRepo) QueryUsers(_ context.Context, f *apifeatures.APIFeatures) ([]models.User, error) {
	return m.queryUsersFn(f)
}

func (m *mockUserRepo) UpdateUser(_ context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	return m.updateUserFn(id, updates)
}

func newUserServer(repo repositories.UserRepository, relations UserRelationService) *echo.Echo {
	e, requireAuth, optionalAuth := newTestServer()
	g := e.Group("/api/user")
	NewUserHandler(repo).RegisterUserRoutes(g, requireAuth, optionalAuth)
	if relations != nil {
		NewUserRelationHandler(relations).RegisterUserRelationRoutes(g, requireAuth)
	}
	return e
}

func TestGetUser(t *testing.T) {
	repo := &mockUserRepo{getUserByIDFn: func(id uint) (*models.User, error) {
		if id == 1 {
			return &models.User{ID: 1, Username: "ada", Password: "hash"}, nil
		}
		return nil, repositories.ErrNotFound
	}}
	e := newUserServer(repo, nil)

	res := do(t, e, http.MethodGet, "/api/user/1", "", 0)
	assert.Equal(t, http.StatusOK, res.Code)
	data := res.Body["data"].(map[string]interface{})
	assert.Equal(t, "ada", data["username"])
	assert.NotContains(t, data, "password")

	res = do(t, e, http.MethodGet, "/api/user/2", "", 0)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "No user found with that ID", res.Body["message"])

	res = do(t, e, http.MethodGet, "/api/user/abc", "", 0)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Invalid id: abc.", res.Body["message"])
}

func TestGetUsersRejectsUnknownSort(t *testing.T) {
	repo := &mockUserRepo{queryUsersFn: func(*apifeatures.APIFeatures) ([]models.User, error) {
		t.Fatal("query must not run")
		return nil, nil
	}}
	e := newUserServer(repo, nil)

	res := do(t, e, http.MethodGet, "/api/user?sort=password", "", 0)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestUpdateLoggedInUser(t *testing.T) {
	repo := &mockUserRepo{updateUserFn: func(id uint, updates map[string]interface{}) (*models.User, error) {
		assert.Equal(t, uint(4), id)
		assert.Equal(t, map[string]interface{}{"bio": "hi"}, updates)
		return &models.User{ID: id, Bio: "hi"}, nil
	}}
	e := newUserServer(repo, nil)

	res := do(t, e, http.MethodPatch, "/api/user/loggedInUser", `{"bio":"hi"}`, 4)
	assert.Equal(t, http.StatusOK, res.Code)

	res = do(t, e, http.MethodPatch, "/api/user/loggedInUser", `{"username":"new"}`, 4)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, noUpdateDataMessage, res.Body["message"])

	res = do(t, e, http.MethodPatch, "/api/user/loggedInUser", `{"bio":"hi"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

type mockRelationService struct {
	UserRelationService
	addFn            func(viewerID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error)
	followFromPostFn func(viewerID, toUserID uint, postID primitive.ObjectID) (*models.PostView, error)
}

func (m *mockRelationService) Add(_ context.Context, viewerID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error) {
	return m.addFn(viewerID, toUserID, kind)
}

func (m *mockRelationService) FollowFromPost(_ context.Context, viewerID, toUserID uint, postID primitive.ObjectID) (*models.PostView, error) {
	return m.followFromPostFn(viewerID, toUserID, postID)
}

func TestAddRelation(t *testing.T) {
	var kinds []models.RelationKind
	svc := &mockRelationService{addFn: func(viewerID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error) {
		assert.Equal(t, uint(1), viewerID)
		assert.Equal(t, uint(2), toUserID)
		kinds = append(kinds, kind)
		return &models.UserRelationResult{LoggedInUser: &models.User{ID: 1}, TargetUser: &models.User{ID: 2}}, nil
	}}
	e := newUserServer(&mockUserRepo{}, svc)

	for _, path := range []string{"follow", "block", "mute"} {
		res := do(t, e, http.MethodPost, "/api/user/2/"+path, "", 1)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body["data"], "targetUser")
	}
	assert.Equal(t, []models.RelationKind{models.RelationFollow, models.RelationBlock, models.RelationMute}, kinds)
}

func TestFollowFromPostInvalidPost(t *testing.T) {
	e := newUserServer(&mockUserRepo{}, &mockRelationService{})

	res := do(t, e, http.MethodPost, "/api/user/2/follow/xyz/fromPost", "", 1)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Invalid postId: xyz.", res.Body["message"])
}
