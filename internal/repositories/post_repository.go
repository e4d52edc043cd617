package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apifeatures"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counter fields that engagement writes keep in step.
const (
	CounterLikes   = "likesCount"
	CounterReposts = "repostsCount"
	CounterReplies = "repliesCount"
	CounterViews   = "viewsCount"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Query(ctx context.Context, features *apifeatures.APIFeatures) ([]models.Post, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	CreateMany(ctx context.Context, posts []*models.Post) error
	UpdateOwned(ctx context.Context, id primitive.ObjectID, ownerID uint, set bson.M) (*models.Post, error)
	DeleteOwned(ctx context.Context, id primitive.ObjectID, ownerID uint) error
	IncrementCounter(ctx context.Context, id primitive.ObjectID, field string, delta int) error
	IncrementPollVote(ctx context.Context, id primitive.ObjectID, optionIdx int) error
	CloseExpiredPolls(ctx context.Context, now time.Time) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// Query runs a list request against the posts collection.
func (r *MongoPostRepository) Query(ctx context.Context, features *apifeatures.APIFeatures) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, features.MongoFilter(), features.MongoFindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translateNotFound(err)
	}
	return &post, nil
}

// GetByIDs retrieves the posts that exist among ids, in no particular order.
func (r *MongoPostRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	posts := []models.Post{}
	if len(ids) == 0 {
		return posts, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Create inserts a post after checking its document rules.
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	prepareInsert(post)
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// CreateMany inserts a thread in order, stopping at the first failure.
func (r *MongoPostRepository) CreateMany(ctx context.Context, posts []*models.Post) error {
	docs := make([]interface{}, 0, len(posts))
	for _, post := range posts {
		if err := post.Validate(); err != nil {
			return err
		}
		prepareInsert(post)
		docs = append(docs, post)
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

func prepareInsert(post *models.Post) {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Poll != nil && post.Poll.CreatedAt.IsZero() {
		post.Poll.CreatedAt = now
		post.Poll.UpdatedAt = now
	}
}

// UpdateOwned applies set to a post created by ownerID and returns the new version.
func (r *MongoPostRepository) UpdateOwned(ctx context.Context, id primitive.ObjectID, ownerID uint, set bson.M) (*models.Post, error) {
	set["updatedAt"] = time.Now()
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "createdById": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &post, nil
}

// DeleteOwned deletes a post created by ownerID
func (r *MongoPostRepository) DeleteOwned(ctx context.Context, id primitive.ObjectID, ownerID uint) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "createdById": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementCounter adds delta to one of the post counters.
func (r *MongoPostRepository) IncrementCounter(ctx context.Context, id primitive.ObjectID, field string, delta int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementPollVote adds one vote to the option at optionIdx.
func (r *MongoPostRepository) IncrementPollVote(ctx context.Context, id primitive.ObjectID, optionIdx int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{fmt.Sprintf("poll.options.%d.voteCount", optionIdx): 1},
			"$set": bson.M{"poll.updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CloseExpiredPolls turns voting off on every open poll whose length has elapsed.
func (r *MongoPostRepository) CloseExpiredPolls(ctx context.Context, now time.Time) (int64, error) {
	lengthMs := bson.M{"$add": bson.A{
		bson.M{"$multiply": bson.A{"$poll.length.days", 24 * 60 * 60 * 1000}},
		bson.M{"$multiply": bson.A{"$poll.length.hours", 60 * 60 * 1000}},
		bson.M{"$multiply": bson.A{"$poll.length.minutes", 60 * 1000}},
	}}
	filter := bson.M{
		"poll.isVotingOff": false,
		"$expr": bson.M{"$and": bson.A{
			bson.M{"$gt": bson.A{lengthMs, 0}},
			bson.M{"$lte": bson.A{bson.M{"$add": bson.A{"$poll.createdAt", lengthMs}}, now}},
		}},
	}
	res, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"poll.isVotingOff": true,
		"poll.updatedAt":   now,
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
