package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PollVote records which option a user picked (MongoDB poll_votes)
type PollVote struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID    primitive.ObjectID `json:"postId" bson:"postId"`
	UserID    uint               `json:"userId" bson:"userId"`
	OptionIdx int                `json:"optionIdx" bson:"optionIdx"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type PollVoteRequest struct {
	OptionIdx *int `json:"optionIdx" validate:"required,min=0,max=3"`
}

// PollVoteResult is the voted option after the transaction committed.
type PollVoteResult struct {
	Text                string `json:"text"`
	VoteCount           int    `json:"voteCount"`
	IsLoggedInUserVoted bool   `json:"isLoggedInUserVoted"`
}
