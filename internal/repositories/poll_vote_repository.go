package repositories

import (
	"context"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PollVoteRepository defines the interface for poll vote records
type PollVoteRepository interface {
	CreateVote(ctx context.Context, vote *models.PollVote) error
	FindUserVotes(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]models.PollVote, error)
}

// MongoPollVoteRepository implements PollVoteRepository for MongoDB
type MongoPollVoteRepository struct {
	collection *mongo.Collection
}

// NewMongoPollVoteRepository creates a new MongoPollVoteRepository
func NewMongoPollVoteRepository(db *mongo.Database) *MongoPollVoteRepository {
	return &MongoPollVoteRepository{collection: db.Collection("poll_votes")}
}

func (r *MongoPollVoteRepository) CreateVote(ctx context.Context, vote *models.PollVote) error {
	vote.ID = primitive.NewObjectID()
	vote.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, vote)
	return err
}

func (r *MongoPollVoteRepository) FindUserVotes(ctx context.Context, userID uint, postIDs []primitive.ObjectID) ([]models.PollVote, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "postId": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var votes []models.PollVote
	if err = cursor.All(ctx, &votes); err != nil {
		return nil, err
	}
	return votes, nil
}
