package github

import (
	"net/http"
	"strconv"
	"time"
)

// Rate limit defaults, overridable through Options
const (
	defaultWaitThreshold = 100
	defaultWaitBuffer    = 10 * time.Second
)

// RateLimitStatus is the server reported quota view, refreshed from the
// x-ratelimit response headers after every call
type RateLimitStatus struct {
	Limit     int
	Remaining int
	Used      int
	ResetAt   time.Time
}

// SecondsUntilReset is the time left until the quota window replenishes,
// floored at zero
func (s RateLimitStatus) SecondsUntilReset(now time.Time) time.Duration {
	d := s.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// NeedsWait reports whether the remaining quota dipped under threshold
// limit and used never factor in
func (s RateLimitStatus) NeedsWait(threshold int) bool {
	return s.Remaining < threshold
}

// WaitFor is how long a caller should suspend before the next call:
// time to reset plus a safety buffer, floored at zero
func (s RateLimitStatus) WaitFor(buffer time.Duration, now time.Time) time.Duration {
	d := s.SecondsUntilReset(now) + buffer
	if d < 0 {
		return 0
	}
	return d
}

// statusFromHeaders folds the x-ratelimit headers into prev, field by
// field; an absent header keeps the prior value, so a partial response
// never zeroes Remaining and forces a spurious wait window
// returns ok=false when every header is absent
func statusFromHeaders(h http.Header, prev RateLimitStatus) (RateLimitStatus, bool) {
	limit := h.Get("x-ratelimit-limit")
	remaining := h.Get("x-ratelimit-remaining")
	reset := h.Get("x-ratelimit-reset")
	used := h.Get("x-ratelimit-used")
	if limit == "" && remaining == "" && reset == "" && used == "" {
		return prev, false
	}

	st := prev
	if limit != "" {
		st.Limit = atoi(limit)
	}
	if remaining != "" {
		st.Remaining = atoi(remaining)
	}
	if used != "" {
		st.Used = atoi(used)
	}
	if sec := atoi(reset); sec > 0 {
		st.ResetAt = time.Unix(int64(sec), 0).UTC()
	}
	return st, true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}
