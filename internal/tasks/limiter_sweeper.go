package tasks

import (
	"context"
	"time"

	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/ratelimit"
)

// LimiterSweeper periodically forgets idle rate limit buckets
type LimiterSweeper struct {
	limiters []*ratelimit.Keyed
	interval time.Duration
	logger   *logging.Logger
}

// NewLimiterSweeper creates a new sweeper task
func NewLimiterSweeper(interval time.Duration, limiters ...*ratelimit.Keyed) *LimiterSweeper {
	return &LimiterSweeper{
		limiters: limiters,
		interval: interval,
		logger:   logging.GetGlobalLogger(),
	}
}

// Run sweeps every interval until ctx is done
func (s *LimiterSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *LimiterSweeper) sweep(now time.Time) {
	removed := 0
	for _, l := range s.limiters {
		removed += l.Sweep(now)
	}
	if removed > 0 {
		s.logger.Debug("Swept %d idle rate limit buckets", removed)
	}
}
