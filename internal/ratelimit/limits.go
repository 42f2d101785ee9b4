// Package ratelimit keeps per-client request budgets in memory.
//
// Limits are written the way operators already know them from other web
// stacks ("5 per minute, 20 per hour"). Keyed enforces them as hard caps over
// a sliding window; Pacer turns one into a token bucket for smoothing
// outgoing work.
package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Limit allows Count requests per Period
type Limit struct {
	Count  int
	Period time.Duration
}

var units = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// String renders the limit in the notation ParseLimits accepts
func (l Limit) String() string {
	for name, d := range units {
		if d == l.Period {
			return fmt.Sprintf("%d per %s", l.Count, name)
		}
	}
	return fmt.Sprintf("%d per %s", l.Count, l.Period)
}

// Pacer returns a token bucket that starts full with Count tokens and
// refills one every Period/Count. Unlike Keyed it smooths bursts rather
// than capping them.
func (l Limit) Pacer() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.Period/time.Duration(l.Count)), l.Count)
}

// ParseLimits parses a list such as "200 per day, 50 per hour" or "5/minute;20/hour".
// An empty string yields no limits.
func ParseLimits(s string) ([]Limit, error) {
	var limits []Limit
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		limit, err := parseLimit(part)
		if err != nil {
			return nil, err
		}
		limits = append(limits, limit)
	}
	return limits, nil
}

func parseLimit(s string) (Limit, error) {
	var count, unit string
	if i := strings.Index(s, "/"); i >= 0 {
		count, unit = s[:i], s[i+1:]
	} else {
		fields := strings.Fields(s)
		if len(fields) != 3 || strings.ToLower(fields[1]) != "per" {
			return Limit{}, fmt.Errorf("invalid rate limit %q: expected \"<count> per <unit>\"", s)
		}
		count, unit = fields[0], fields[2]
	}

	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || n <= 0 {
		return Limit{}, fmt.Errorf("invalid rate limit %q: count must be a positive integer", s)
	}

	unit = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "s")
	period, ok := units[unit]
	if !ok {
		return Limit{}, fmt.Errorf("invalid rate limit %q: unknown unit %q", s, unit)
	}

	return Limit{Count: n, Period: period}, nil
}
