package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// engagedPostIDs returns which of postIDs have a document owned by userID in coll.
func engagedPostIDs(ctx context.Context, coll *mongo.Collection, ownerField string, userID uint, postIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	values, err := coll.Distinct(ctx, "postId", bson.M{
		"postId":   bson.M{"$in": postIDs},
		ownerField: userID,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// deleteOwned removes the single engagement document of userID on postID.
func deleteOwned(ctx context.Context, coll *mongo.Collection, ownerField string, postID primitive.ObjectID, userID uint) error {
	res, err := coll.DeleteOne(ctx, bson.M{"postId": postID, ownerField: userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
