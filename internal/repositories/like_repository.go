package repositories

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.PostLike) error
	DeleteLike(ctx context.Context, postID primitive.ObjectID, userID uint) error
	LikedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("post_likes")}
}

// CreateLike stores a like. A second like by the same user is a duplicate key error.
func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *models.PostLike) error {
	like.ID = primitive.NewObjectID()
	like.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, like)
	return err
}

// DeleteLike deletes a like, returning ErrNotFound when the post wasn't liked
func (r *MongoLikeRepository) DeleteLike(ctx context.Context, postID primitive.ObjectID, userID uint) error {
	return deleteOwned(ctx, r.collection, "userId", postID, userID)
}

func (r *MongoLikeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return engagedPostIDs(ctx, r.collection, "userId", userID, postIDs)
}
