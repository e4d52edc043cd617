package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostBookmark represents a bookmarked post (MongoDB post_bookmarks)
type PostBookmark struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID          primitive.ObjectID `json:"postId" bson:"postId"`
	BookmarkOwnerID uint               `json:"bookmarkOwnerId" bson:"bookmarkOwnerId"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}
