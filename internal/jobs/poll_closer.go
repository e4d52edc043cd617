package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const pollCloserTimeout = 30 * time.Second

// PollCloser switches voting off on expired polls. *repositories.MongoPostRepository satisfies it.
type PollCloser interface {
	CloseExpiredPolls(ctx context.Context, now time.Time) (int64, error)
}

// ClosePolls runs one pass of the poll closer.
func ClosePolls(ctx context.Context, closer PollCloser, now time.Time) {
	ctx, cancel := context.WithTimeout(ctx, pollCloserTimeout)
	defer cancel()

	closed, err := closer.CloseExpiredPolls(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when closing expired polls.")
		return
	}
	if closed > 0 {
		log.Info().Int64("count", closed).Msg("Closed expired polls.")
	}
}

// NewScheduler returns a stopped cron scheduler with the poll closer registered on schedule.
func NewScheduler(schedule string, closer PollCloser) (*cron.Cron, error) {
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(schedule, func() {
		ClosePolls(context.Background(), closer, time.Now())
	}); err != nil {
		return nil, err
	}
	return quartz, nil
}
