package repositories

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookmarkRepository defines the interface for bookmarked post operations
type BookmarkRepository interface {
	CreateBookmark(ctx context.Context, bookmark *models.PostBookmark) error
	DeleteBookmark(ctx context.Context, postID primitive.ObjectID, userID uint) error
	BookmarkedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
	ListBookmarkedPostIDs(ctx context.Context, userID uint) ([]primitive.ObjectID, error)
}

// MongoBookmarkRepository implements BookmarkRepository for MongoDB
type MongoBookmarkRepository struct {
	collection *mongo.Collection
}

// NewMongoBookmarkRepository creates a new MongoBookmarkRepository
func NewMongoBookmarkRepository(db *mongo.Database) *MongoBookmarkRepository {
	return &MongoBookmarkRepository{collection: db.Collection("post_bookmarks")}
}

func (r *MongoBookmarkRepository) CreateBookmark(ctx context.Context, bookmark *models.PostBookmark) error {
	bookmark.ID = primitive.NewObjectID()
	bookmark.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, bookmark)
	return err
}

func (r *MongoBookmarkRepository) DeleteBookmark(ctx context.Context, postID primitive.ObjectID, userID uint) error {
	return deleteOwned(ctx, r.collection, "bookmarkOwnerId", postID, userID)
}

func (r *MongoBookmarkRepository) BookmarkedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return engagedPostIDs(ctx, r.collection, "bookmarkOwnerId", userID, postIDs)
}

// ListBookmarkedPostIDs returns the user's bookmarks, newest first.
func (r *MongoBookmarkRepository) ListBookmarkedPostIDs(ctx context.Context, userID uint) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"bookmarkOwnerId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetProjection(bson.M{"postId": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookmarks []models.PostBookmark
	if err = cursor.All(ctx, &bookmarks); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.PostID)
	}
	return ids, nil
}
