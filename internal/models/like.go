package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostLike represents a like on a post (MongoDB post_likes)
type PostLike struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID    primitive.ObjectID `json:"postId" bson:"postId"`
	UserID    uint               `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
