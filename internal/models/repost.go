package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repost represents a user re-sharing a post (MongoDB reposts)
type Repost struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID        primitive.ObjectID `json:"postId" bson:"postId"`
	RepostOwnerID uint               `json:"repostOwnerId" bson:"repostOwnerId"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}
