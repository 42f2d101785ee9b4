package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimits(t *testing.T) {
	tests := []struct {
		input   string
		want    []Limit
		wantErr bool
	}{
		{"200 per day, 50 per hour", []Limit{{200, 24 * time.Hour}, {50, time.Hour}}, false},
		{"5 per minute; 20 per hour", []Limit{{5, time.Minute}, {20, time.Hour}}, false},
		{"10/second", []Limit{{10, time.Second}}, false},
		{"3 PER Minutes", []Limit{{3, time.Minute}}, false},
		{"", nil, false},
		{" , ", nil, false},
		{"five per minute", nil, true},
		{"0 per minute", nil, true},
		{"5 per fortnight", nil, true},
		{"5 each minute", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLimits(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLimitString(t *testing.T) {
	assert.Equal(t, "5 per minute", Limit{5, time.Minute}.String())
	assert.Equal(t, "200 per day", Limit{200, 24 * time.Hour}.String())
}

func TestKeyedAllowsUpToCount(t *testing.T) {
	k := NewKeyed([]Limit{{5, time.Minute}, {20, time.Hour}})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		res := k.AllowAt("203.0.113.7", now)
		require.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 4-i, res.Remaining)
		assert.Equal(t, Limit{5, time.Minute}, res.Limit)
	}

	res := k.AllowAt("203.0.113.7", now)
	assert.False(t, res.Allowed)
	assert.Equal(t, Limit{5, time.Minute}, res.Limit)
	assert.Equal(t, time.Minute, res.RetryAfter)

	// other clients keep their own budget
	assert.True(t, k.AllowAt("198.51.100.2", now).Allowed)
	assert.Equal(t, 2, k.Len())
}

func TestKeyedDeniedRequestsConsumeNothing(t *testing.T) {
	k := NewKeyed([]Limit{{5, time.Minute}})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.True(t, k.AllowAt("ip", now).Allowed)
	}
	for i := 0; i < 10; i++ {
		require.False(t, k.AllowAt("ip", now).Allowed)
	}

	assert.False(t, k.AllowAt("ip", now.Add(59*time.Second)).Allowed)

	later := now.Add(time.Minute)
	for i := 0; i < 5; i++ {
		require.True(t, k.AllowAt("ip", later).Allowed, "request %d", i+1)
	}
	assert.False(t, k.AllowAt("ip", later).Allowed)
}

// admittedWithin counts the admissions in [from, from+period)
func admittedWithin(hits []time.Time, from time.Time, period time.Duration) int {
	n := 0
	for _, h := range hits {
		if !h.Before(from) && h.Before(from.Add(period)) {
			n++
		}
	}
	return n
}

func TestKeyedNeverExceedsCountInAnyPeriod(t *testing.T) {
	tests := []struct {
		name   string
		limits []Limit
		check  Limit
		run    time.Duration
	}{
		{"5 per minute", []Limit{{5, time.Minute}}, Limit{5, time.Minute}, 5 * time.Minute},
		{"hourly cap under a per minute limit", []Limit{{5, time.Minute}, {20, time.Hour}}, Limit{20, time.Hour}, 3 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeyed(tt.limits)
			start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

			// hammer the limiter every second, as often as it lets us through
			var hits []time.Time
			for now := start; now.Before(start.Add(tt.run)); now = now.Add(time.Second) {
				for k.AllowAt("ip", now).Allowed {
					hits = append(hits, now)
				}
			}

			assert.Equal(t, tt.check.Count, admittedWithin(hits, start, tt.check.Period))
			for s := start; s.Before(start.Add(tt.run)); s = s.Add(time.Second) {
				require.LessOrEqual(t, admittedWithin(hits, s, tt.check.Period), tt.check.Count, "span starting %s", s.Sub(start))
			}
		})
	}
}

func TestKeyedWindowStraddlingBoundary(t *testing.T) {
	k := NewKeyed([]Limit{{5, time.Minute}})
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, k.AllowAt("ip", start).Allowed)
	for i := 0; i < 4; i++ {
		require.True(t, k.AllowAt("ip", start.Add(59*time.Second)).Allowed)
	}

	// only the hit from the first second has expired
	at := start.Add(time.Minute)
	assert.True(t, k.AllowAt("ip", at).Allowed)
	res := k.AllowAt("ip", at)
	assert.False(t, res.Allowed)
	assert.Equal(t, 59*time.Second, res.RetryAfter)
}

func TestLimitPacer(t *testing.T) {
	p := Limit{Count: 2, Period: time.Minute}.Pacer()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, p.AllowN(now, 1))
	assert.True(t, p.AllowN(now, 1))
	assert.False(t, p.AllowN(now, 1))
	assert.True(t, p.AllowN(now.Add(30*time.Second), 1))
}

func TestKeyedLongerLimitDenies(t *testing.T) {
	k := NewKeyed([]Limit{{2, time.Second}, {3, time.Minute}})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, k.AllowAt("ip", now).Allowed)
	assert.True(t, k.AllowAt("ip", now).Allowed)
	assert.False(t, k.AllowAt("ip", now).Allowed)

	now = now.Add(time.Second)
	assert.True(t, k.AllowAt("ip", now).Allowed)

	res := k.AllowAt("ip", now)
	assert.False(t, res.Allowed)
	assert.Equal(t, Limit{3, time.Minute}, res.Limit)
	assert.Greater(t, res.RetryAfter, 10*time.Second)
}

func TestKeyedWithoutLimits(t *testing.T) {
	k := NewKeyed(nil)
	for i := 0; i < 100; i++ {
		assert.True(t, k.Allow("ip").Allowed)
	}
	assert.Equal(t, 0, k.Len())
}

func TestKeyedSweep(t *testing.T) {
	k := NewKeyed([]Limit{{5, time.Minute}, {20, time.Hour}})
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	k.AllowAt("old", start)
	k.AllowAt("recent", start.Add(30*time.Minute))

	assert.Equal(t, 0, k.Sweep(start.Add(59*time.Minute)))
	assert.Equal(t, 1, k.Sweep(start.Add(time.Hour)))
	assert.Equal(t, 1, k.Len())
	assert.Equal(t, 1, k.Sweep(start.Add(2*time.Hour)))
	assert.Equal(t, 0, k.Len())
}
