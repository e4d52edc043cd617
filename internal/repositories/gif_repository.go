package repositories

import (
	"context"
	"regexp"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GifRepository defines the interface for stored gifs
type GifRepository interface {
	GetCategories(ctx context.Context) ([]models.GifCategory, error)
	GetByCategory(ctx context.Context, category string) ([]models.Gif, error)
	SearchByDescription(ctx context.Context, term string, limit int64) ([]models.Gif, error)
}

// MongoGifRepository implements GifRepository for MongoDB
type MongoGifRepository struct {
	gifs       *mongo.Collection
	categories *mongo.Collection
}

// NewMongoGifRepository creates a new MongoGifRepository
func NewMongoGifRepository(db *mongo.Database) *MongoGifRepository {
	return &MongoGifRepository{
		gifs:       db.Collection("gifs"),
		categories: db.Collection("gif_categories"),
	}
}

var bySortOrder = bson.D{{Key: "sortOrder", Value: 1}}

func (r *MongoGifRepository) GetCategories(ctx context.Context) ([]models.GifCategory, error) {
	cursor, err := r.categories.Find(ctx, bson.M{}, options.Find().SetSort(bySortOrder))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.GifCategory{}
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MongoGifRepository) GetByCategory(ctx context.Context, category string) ([]models.Gif, error) {
	return r.find(ctx, bson.M{"category": category}, options.Find().SetSort(bySortOrder))
}

// SearchByDescription matches term case-insensitively anywhere in the description.
func (r *MongoGifRepository) SearchByDescription(ctx context.Context, term string, limit int64) ([]models.Gif, error) {
	filter := bson.M{"description": primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
	return r.find(ctx, filter, options.Find().SetSort(bySortOrder).SetLimit(limit))
}

func (r *MongoGifRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Gif, error) {
	cursor, err := r.gifs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	gifs := []models.Gif{}
	if err = cursor.All(ctx, &gifs); err != nil {
		return nil, err
	}
	return gifs, nil
}
