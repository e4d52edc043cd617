package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PollPostStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	IncrementPollVote(ctx context.Context, id primitive.ObjectID, optionIdx int) error
}

type PollVoteStore interface {
	CreateVote(ctx context.Context, vote *models.PollVote) error
}

// PollService records poll votes.
type PollService struct {
	tx    repositories.Transactor
	posts PollPostStore
	votes PollVoteStore
	now   func() time.Time
}

// NewPollService creates a new PollService
func NewPollService(tx repositories.Transactor, posts PollPostStore, votes PollVoteStore) *PollService {
	return &PollService{tx: tx, posts: posts, votes: votes, now: time.Now}
}

// SetPollVote records userID's vote for the option at optionIdx and bumps its
// counter. Both writes commit together or not at all.
func (s *PollService) SetPollVote(ctx context.Context, postID primitive.ObjectID, optionIdx int, userID uint) (*models.PollVoteResult, error) {
	var result *models.PollVoteResult
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		result = nil

		post, err := s.posts.GetByID(ctx, postID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.New("post not found", http.StatusNotFound)
		}
		if err != nil {
			return err
		}

		poll := post.Poll
		if poll == nil {
			return apperror.New("post has no poll", http.StatusBadRequest)
		}
		if poll.IsClosed(s.now()) {
			return apperror.New("poll is closed", http.StatusBadRequest)
		}
		if optionIdx < 0 || optionIdx >= len(poll.Options) {
			return apperror.New("option not found", http.StatusNotFound)
		}

		vote := &models.PollVote{PostID: postID, UserID: userID, OptionIdx: optionIdx}
		if err := s.votes.CreateVote(ctx, vote); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return apperror.New("user already voted", http.StatusBadRequest)
			}
			return err
		}
		if err := s.posts.IncrementPollVote(ctx, postID, optionIdx); err != nil {
			return err
		}

		option := poll.Options[optionIdx]
		result = &models.PollVoteResult{
			Text:                option.Text,
			VoteCount:           option.VoteCount + 1,
			IsLoggedInUserVoted: true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("postId", postID.Hex()).Int("optionIdx", optionIdx).Uint("userId", userID).Msg("poll vote recorded")
	return result, nil
}
