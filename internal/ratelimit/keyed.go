package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Result describes the outcome of a single Allow call
type Result struct {
	Allowed bool
	// Limit is the limit closest to exhaustion, or the one that denied the request
	Limit      Limit
	Remaining  int
	RetryAfter time.Duration
}

// window remembers the admission times that still count against one limit,
// oldest first. It never holds more than Count entries.
type window struct {
	hits []time.Time
}

func (w *window) expire(now time.Time, period time.Duration) {
	i := 0
	for i < len(w.hits) && now.Sub(w.hits[i]) >= period {
		i++
	}
	if i > 0 {
		w.hits = append(w.hits[:0], w.hits[i:]...)
	}
}

type entry struct {
	windows  []window
	lastSeen time.Time
}

// Keyed holds one sliding window per limit and key. A request is admitted
// only when every limit admits it; a denied request consumes nothing.
// Within any span of Period a key is admitted at most Count times.
type Keyed struct {
	limits    []Limit
	maxPeriod time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

// NewKeyed creates a keyed limiter for the given limits
func NewKeyed(limits []Limit) *Keyed {
	k := &Keyed{
		limits:  append([]Limit(nil), limits...),
		entries: make(map[string]*entry),
	}
	for _, l := range limits {
		if l.Period > k.maxPeriod {
			k.maxPeriod = l.Period
		}
	}
	return k
}

// Limits returns the configured limits
func (k *Keyed) Limits() []Limit {
	return append([]Limit(nil), k.limits...)
}

// Allow checks key against all limits at the current time
func (k *Keyed) Allow(key string) Result {
	return k.AllowAt(key, time.Now())
}

// AllowAt checks key against all limits at the given time
func (k *Keyed) AllowAt(key string, now time.Time) Result {
	if len(k.limits) == 0 {
		return Result{Allowed: true, Remaining: math.MaxInt}
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[key]
	if !ok {
		e = &entry{windows: make([]window, len(k.limits))}
		k.entries[key] = e
	}
	e.lastSeen = now

	denied := false
	deniedBy := 0
	var retryAfter time.Duration
	for i, l := range k.limits {
		w := &e.windows[i]
		w.expire(now, l.Period)
		if len(w.hits) < l.Count {
			continue
		}
		// the oldest hit that would have to expire before one more fits
		wait := w.hits[len(w.hits)-l.Count].Add(l.Period).Sub(now)
		if !denied || wait > retryAfter {
			denied, deniedBy, retryAfter = true, i, wait
		}
	}

	if denied {
		return Result{
			Allowed:    false,
			Limit:      k.limits[deniedBy],
			Remaining:  0,
			RetryAfter: retryAfter,
		}
	}

	result := Result{Allowed: true, Remaining: math.MaxInt}
	for i, l := range k.limits {
		w := &e.windows[i]
		w.hits = append(w.hits, now)
		if remaining := l.Count - len(w.hits); remaining < result.Remaining {
			result.Remaining = remaining
			result.Limit = l
		}
	}
	return result
}

// Sweep drops keys that have been idle for at least the longest period.
// Every hit they remember has expired, so forgetting them changes nothing.
func (k *Keyed) Sweep(now time.Time) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	removed := 0
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) >= k.maxPeriod {
			delete(k.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
