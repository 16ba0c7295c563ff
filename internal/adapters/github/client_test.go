package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "ghsummary/internal/platform/errors"
)

func newTestClient(url string) *Client {
	return NewClient(Options{Endpoint: url, Token: "test-token"})
}

func TestExecuteSuccessAndHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("x-ratelimit-limit", "5000")
		w.Header().Set("x-ratelimit-remaining", "4999")
		w.Header().Set("x-ratelimit-reset", "1700000000")
		w.Header().Set("x-ratelimit-used", "1")
		_, _ = w.Write([]byte(`{"data":{"user":{"id":"u1"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	raw, err := c.Execute(context.Background(), `query { viewer }`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"user":{"id":"u1"}}` {
		t.Fatalf("bad data: %s", raw)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("bad auth header: %q", gotAuth)
	}
	if gotAccept != "application/vnd.github.v4+json" {
		t.Fatalf("bad accept header: %q", gotAccept)
	}

	st, ok := c.RateLimit()
	if !ok {
		t.Fatalf("expected rate limit status tracked")
	}
	if st.Remaining != 4999 || st.Limit != 5000 {
		t.Fatalf("bad status: %+v", st)
	}
}

func TestExecuteUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Execute(context.Background(), "q", nil)
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestExecuteForbiddenIsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// a throttled 403 still carries quota headers; the client must
		// refresh its view before failing
		w.Header().Set("x-ratelimit-remaining", "0")
		w.Header().Set("x-ratelimit-limit", "5000")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Execute(context.Background(), "q", nil)
	if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("expected rate limited, got %v", err)
	}
	st, ok := c.RateLimit()
	if !ok || st.Remaining != 0 {
		t.Fatalf("expected status refreshed on 403, got %+v ok=%v", st, ok)
	}
}

func TestExecuteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream sad"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Execute(context.Background(), "q", nil)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestExecuteGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Could not resolve to a User"},{"message":"boom"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Execute(context.Background(), "q", nil)
	if !perr.IsCode(err, perr.ErrorCodeRemoteQuery) {
		t.Fatalf("expected remote query error, got %v", err)
	}
}

func TestExecuteParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Execute(context.Background(), "q", nil)
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("expected json error, got %v", err)
	}
}

func TestExecuteEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL).Execute(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("expected empty object, got %s", raw)
	}
}

func TestWaitForQuotaSuspends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var slept time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}
	c.status = &RateLimitStatus{Remaining: 5, ResetAt: now.Add(30 * time.Second)}

	if _, err := c.Execute(context.Background(), "q", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 30s to reset plus the 10s default buffer
	if slept != 40*time.Second {
		t.Fatalf("expected 40s wait, got %v", slept)
	}
}

func TestWaitForQuotaSkippedAboveThreshold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.sleep = func(context.Context, time.Duration) error {
		t.Fatalf("should not sleep with quota above threshold")
		return nil
	}
	c.status = &RateLimitStatus{Remaining: 4000}

	if _, err := c.Execute(context.Background(), "q", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
