package github

import (
	"net/http"
	"testing"
	"time"
)

func TestStatusFromHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-limit", "5000")
	h.Set("x-ratelimit-remaining", "4200")
	h.Set("x-ratelimit-used", "800")
	h.Set("x-ratelimit-reset", "1700000000")

	st, ok := statusFromHeaders(h, RateLimitStatus{})
	if !ok {
		t.Fatalf("expected ok")
	}
	if st.Limit != 5000 || st.Remaining != 4200 || st.Used != 800 {
		t.Fatalf("bad status: %+v", st)
	}
	if st.ResetAt != time.Unix(1700000000, 0).UTC() {
		t.Fatalf("bad reset: %v", st.ResetAt)
	}
}

func TestStatusFromHeadersAbsent(t *testing.T) {
	prev := RateLimitStatus{Limit: 5000, Remaining: 4000}
	st, ok := statusFromHeaders(http.Header{}, prev)
	if ok {
		t.Fatalf("expected ok=false when no quota headers present")
	}
	if st != prev {
		t.Fatalf("absent headers must leave the view untouched: %+v", st)
	}
}

func TestStatusFromHeadersPartialCarriesForward(t *testing.T) {
	// a partial response refreshes only the fields it carries; Remaining
	// in particular must not drop to zero and trigger a wait window
	prev := RateLimitStatus{Limit: 5000, Remaining: 4000, Used: 1000, ResetAt: time.Unix(1700000000, 0).UTC()}
	h := http.Header{}
	h.Set("x-ratelimit-remaining", "3")

	st, ok := statusFromHeaders(h, prev)
	if !ok {
		t.Fatalf("expected ok with partial headers")
	}
	if st.Remaining != 3 {
		t.Fatalf("remaining not refreshed: %+v", st)
	}
	if st.Limit != 5000 || st.Used != 1000 || st.ResetAt != prev.ResetAt {
		t.Fatalf("absent fields must carry forward: %+v", st)
	}
}

func TestNeedsWait(t *testing.T) {
	st := RateLimitStatus{Remaining: 99}
	if !st.NeedsWait(100) {
		t.Fatalf("99 remaining should need wait at threshold 100")
	}
	st.Remaining = 100
	if st.NeedsWait(100) {
		t.Fatalf("100 remaining should not need wait at threshold 100")
	}
}

func TestSecondsUntilResetFloorsAtZero(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := RateLimitStatus{ResetAt: now.Add(-time.Minute)}
	if d := st.SecondsUntilReset(now); d != 0 {
		t.Fatalf("expected 0 for past reset, got %v", d)
	}
	st.ResetAt = now.Add(90 * time.Second)
	if d := st.SecondsUntilReset(now); d != 90*time.Second {
		t.Fatalf("expected 90s, got %v", d)
	}
}

func TestWaitForIncludesBuffer(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := RateLimitStatus{ResetAt: now.Add(30 * time.Second)}
	if d := st.WaitFor(10*time.Second, now); d != 40*time.Second {
		t.Fatalf("expected 40s, got %v", d)
	}
}
