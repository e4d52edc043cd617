package repositories

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostStatsRepository defines the interface for per-viewer post stats
type PostStatsRepository interface {
	CreateStats(ctx context.Context, stats *models.PostStats) error
	UpdateStats(ctx context.Context, postID primitive.ObjectID, userID uint, set bson.M) error
	FindUserStats(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]models.PostStats, error)
	AggregatePostStats(ctx context.Context, postID primitive.ObjectID) (*models.PostStatsSummary, error)
}

// MongoPostStatsRepository implements PostStatsRepository for MongoDB
type MongoPostStatsRepository struct {
	collection *mongo.Collection
}

// NewMongoPostStatsRepository creates a new MongoPostStatsRepository
func NewMongoPostStatsRepository(db *mongo.Database) *MongoPostStatsRepository {
	return &MongoPostStatsRepository{collection: db.Collection("post_stats")}
}

func (r *MongoPostStatsRepository) CreateStats(ctx context.Context, stats *models.PostStats) error {
	now := time.Now()
	stats.ID = primitive.NewObjectID()
	stats.CreatedAt = now
	stats.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, stats)
	return err
}

// UpdateStats sets the given flags on the viewer's stats document.
func (r *MongoPostStatsRepository) UpdateStats(ctx context.Context, postID primitive.ObjectID, userID uint, set bson.M) error {
	set["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"postId": postID, "userId": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostStatsRepository) FindUserStats(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]models.PostStats, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "postId": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.PostStats
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// AggregatePostStats counts, across all viewers, how often each flag is set.
// Post counters (likes, reposts, replies) are not part of the result.
func (r *MongoPostStatsRepository) AggregatePostStats(ctx context.Context, postID primitive.ObjectID) (*models.PostStatsSummary, error) {
	count := func(flag string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{"$" + flag, 1, 0}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"postId": postID}}},
		{{Key: "$group", Value: bson.M{
			"_id":                 nil,
			"viewsCount":          count("isViewed"),
			"detailsViewsCount":   count("isDetailedViewed"),
			"profileViewsCount":   count("isProfileViewed"),
			"followFromPostCount": count("isFollowedFromPost"),
			"hashTagClicksCount":  count("isHashTagClicked"),
			"linkClicksCount":     count("isLinkClicked"),
			"postLinkCopyCount":   count("isPostLinkCopied"),
			"postSharedCount":     count("isPostShared"),
			"postViaMsgCount":     count("isPostSendInMessage"),
			"postBookmarksCount":  count("isPostBookmarked"),
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.PostStatsSummary
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.PostStatsSummary{}, nil
	}
	return &results[0], nil
}
