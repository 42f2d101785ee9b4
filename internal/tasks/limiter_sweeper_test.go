package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vulcanent/vulcanweb/internal/ratelimit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLimiterSweeperStopsOnCancel(t *testing.T) {
	limiter := ratelimit.NewKeyed([]ratelimit.Limit{{Count: 1, Period: time.Millisecond}})
	limiter.Allow("203.0.113.1")
	require.Equal(t, 1, limiter.Len())

	sweeper := NewLimiterSweeper(5*time.Millisecond, limiter)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	assert.Eventually(t, func() bool { return limiter.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweepKeepsActiveKeys(t *testing.T) {
	limiter := ratelimit.NewKeyed([]ratelimit.Limit{{Count: 5, Period: time.Hour}})
	now := time.Now()
	limiter.AllowAt("a", now)

	sweeper := NewLimiterSweeper(time.Minute, limiter)
	sweeper.sweep(now.Add(30 * time.Minute))
	assert.Equal(t, 1, limiter.Len())

	sweeper.sweep(now.Add(time.Hour))
	assert.Equal(t, 0, limiter.Len())
}
