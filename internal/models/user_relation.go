package models

import (
	"net/http"
	"time"

	"github.com/anonto42/chirp/backend/pkg/apperror"
	"gorm.io/gorm"
)

type RelationKind string

const (
	RelationFollow RelationKind = "Follow"
	RelationBlock  RelationKind = "Block"
	RelationMute   RelationKind = "Mute"
)

func (k RelationKind) Valid() bool {
	switch k {
	case RelationFollow, RelationBlock, RelationMute:
		return true
	}
	return false
}

// UserRelation is a directed follow, block or mute between two users (PostgreSQL)
type UserRelation struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	FromUserID uint         `json:"fromUserId" gorm:"not null;uniqueIndex:idx_user_relation"`
	ToUserID   uint         `json:"toUserId" gorm:"not null;uniqueIndex:idx_user_relation;index"`
	Kind       RelationKind `json:"kind" gorm:"type:varchar(10);not null;uniqueIndex:idx_user_relation"`
	PostID     string       `json:"postId,omitempty" gorm:"size:24"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// BeforeCreate rejects self relations and unknown kinds.
func (r *UserRelation) BeforeCreate(tx *gorm.DB) error {
	if r.FromUserID == r.ToUserID {
		return apperror.New("You can't target yourself", http.StatusBadRequest)
	}
	if !r.Kind.Valid() {
		return apperror.New("Invalid relation kind: "+string(r.Kind), http.StatusBadRequest)
	}
	return nil
}

// UserRelationResult is the refreshed pair of users after a relation change.
type UserRelationResult struct {
	LoggedInUser *User `json:"loggedInUser"`
	TargetUser   *User `json:"targetUser"`
}
