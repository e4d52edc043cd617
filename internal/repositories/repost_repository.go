package repositories

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RepostRepository defines the interface for repost data operations
type RepostRepository interface {
	CreateRepost(ctx context.Context, repost *models.Repost) error
	DeleteRepost(ctx context.Context, postID primitive.ObjectID, userID uint) error
	RepostedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

// MongoRepostRepository implements RepostRepository for MongoDB
type MongoRepostRepository struct {
	collection *mongo.Collection
}

// NewMongoRepostRepository creates a new MongoRepostRepository
func NewMongoRepostRepository(db *mongo.Database) *MongoRepostRepository {
	return &MongoRepostRepository{collection: db.Collection("reposts")}
}

func (r *MongoRepostRepository) CreateRepost(ctx context.Context, repost *models.Repost) error {
	repost.ID = primitive.NewObjectID()
	repost.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, repost)
	return err
}

func (r *MongoRepostRepository) DeleteRepost(ctx context.Context, postID primitive.ObjectID, userID uint) error {
	return deleteOwned(ctx, r.collection, "repostOwnerId", postID, userID)
}

func (r *MongoRepostRepository) RepostedPostIDs(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return engagedPostIDs(ctx, r.collection, "repostOwnerId", userID, postIDs)
}
