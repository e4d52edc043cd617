package repositories

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func uniquePair(owner string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "postId", Value: 1}, {Key: owner, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

var collectionIndexes = map[string][]mongo.IndexModel{
	"posts": {
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "createdById", Value: 1}}},
		{Keys: bson.D{{Key: "parentPostId", Value: 1}}},
		{Keys: bson.D{{Key: "poll.isVotingOff", Value: 1}}},
	},
	"post_likes":     {uniquePair("userId")},
	"reposts":        {uniquePair("repostOwnerId")},
	"post_bookmarks": {uniquePair("bookmarkOwnerId"), {Keys: bson.D{{Key: "bookmarkOwnerId", Value: 1}, {Key: "createdAt", Value: -1}}}},
	"post_stats":     {uniquePair("userId")},
	"poll_votes":     {uniquePair("userId")},
	"gifs":           {{Keys: bson.D{{Key: "category", Value: 1}, {Key: "sortOrder", Value: 1}}}},
}

// EnsureIndexes creates the collection indexes. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, indexes := range collectionIndexes {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
		log.Debug().Str("collection", name).Strs("indexes", created).Msg("indexes ensured")
	}
	return nil
}
