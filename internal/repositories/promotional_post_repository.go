package repositories

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apifeatures"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PromotionalPostRepository defines the interface for promotional posts
type PromotionalPostRepository interface {
	Query(ctx context.Context, features *apifeatures.APIFeatures) ([]models.PromotionalPost, error)
	Create(ctx context.Context, post *models.PromotionalPost) error
}

// MongoPromotionalPostRepository implements PromotionalPostRepository for MongoDB
type MongoPromotionalPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPromotionalPostRepository creates a new MongoPromotionalPostRepository
func NewMongoPromotionalPostRepository(db *mongo.Database) *MongoPromotionalPostRepository {
	return &MongoPromotionalPostRepository{collection: db.Collection("promotional_posts")}
}

func (r *MongoPromotionalPostRepository) Query(ctx context.Context, features *apifeatures.APIFeatures) ([]models.PromotionalPost, error) {
	cursor, err := r.collection.Find(ctx, features.MongoFilter(), features.MongoFindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.PromotionalPost{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPromotionalPostRepository) Create(ctx context.Context, post *models.PromotionalPost) error {
	if err := post.Post.Validate(); err != nil {
		return err
	}
	post.ID = primitive.NewObjectID()
	post.IsPromotional = true
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	return err
}
