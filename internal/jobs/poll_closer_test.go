package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPollCloser struct {
	calls atomic.Int32
	err   error
	now   time.Time
}

func (m *mockPollCloser) CloseExpiredPolls(ctx context.Context, now time.Time) (int64, error) {
	m.calls.Add(1)
	m.now = now
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	return 2, m.err
}

func TestClosePolls(t *testing.T) {
	closer := &mockPollCloser{}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	ClosePolls(context.Background(), closer, now)
	assert.EqualValues(t, 1, closer.calls.Load())
	assert.Equal(t, now, closer.now)

	closer.err = errors.New("primary stepped down")
	assert.NotPanics(t, func() { ClosePolls(context.Background(), closer, now) })
	assert.EqualValues(t, 2, closer.calls.Load())
}

func TestNewScheduler(t *testing.T) {
	_, err := NewScheduler("not a schedule", &mockPollCloser{})
	assert.Error(t, err)

	closer := &mockPollCloser{}
	quartz, err := NewScheduler("@every 1s", closer)
	require.NoError(t, err)
	require.Len(t, quartz.Entries(), 1)

	quartz.Start()
	defer quartz.Stop()
	assert.Eventually(t, func() bool { return closer.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
