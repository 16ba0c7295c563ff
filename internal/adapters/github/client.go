// Package github provides a rate limit aware GraphQL client for the GitHub v4 API
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	perr "ghsummary/internal/platform/errors"
	"ghsummary/internal/platform/logger"
)

const (
	endpointDefault = "https://api.github.com/graphql"
	defaultUA       = "ghsummary-graphql-client/1.0"

	// a single call may legitimately sit out a full rate limit window,
	// so the transport timeout is generous
	defaultTimeout = 5 * time.Minute

	defaultPageSize = 100
)

// Options configures the Client
type Options struct {
	Endpoint  string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// WaitThreshold is the remaining-quota floor below which calls wait
	// for the reset; WaitBuffer pads the wait past the reset instant
	WaitThreshold int
	WaitBuffer    time.Duration

	// PageSize is the per-page item count for paginated queries,
	// MaxPages caps page walks (0 means unbounded)
	PageSize int
	MaxPages int
}

// Transport is the single call seam the fetchers depend on
// Execute returns the raw GraphQL data object or a typed error
type Transport interface {
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// Client issues GraphQL calls sequentially, tracking the server quota
// between calls and suspending before the budget runs out
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	status *RateLimitStatus
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.Endpoint == "" {
		o.Endpoint = endpointDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.WaitThreshold <= 0 {
		o.WaitThreshold = defaultWaitThreshold
	}
	if o.WaitBuffer <= 0 {
		o.WaitBuffer = defaultWaitBuffer
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("github"),
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// PageSize returns the configured per-page item count
func (c *Client) PageSize() int { return c.opts.PageSize }

// MaxPages returns the configured page cap, 0 meaning unbounded
func (c *Client) MaxPages() int { return c.opts.MaxPages }

// RateLimit returns the last observed quota status
func (c *Client) RateLimit() (RateLimitStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == nil {
		return RateLimitStatus{}, false
	}
	return *c.status, true
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Execute performs one GraphQL call
// it waits out the quota first when needed, then maps HTTP and GraphQL
// level failures to project error codes
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if err := c.waitForQuota(ctx); err != nil {
		return nil, err
	}

	if variables == nil {
		variables = map[string]any{}
	}
	payload, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "github marshal request failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "github new request failed")
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github.v4+json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github transport failed")
	}
	defer func() { _ = resp.Body.Close() }()

	// refresh quota before status handling so a 403 still updates the view
	c.updateStatus(resp.Header)

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("github graphql response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, perr.Unauthorizedf("github authentication failed, check token")
	case resp.StatusCode == http.StatusForbidden:
		return nil, perr.RateLimitedf("github forbidden, rate limit likely exceeded")
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, perr.Unavailablef("github http %d: %s", resp.StatusCode, string(body))
	}

	var env gqlEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, perr.JSONErrf("github response parse failed: %v", err)
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			if e.Message == "" {
				e.Message = "unknown error"
			}
			msgs = append(msgs, e.Message)
		}
		return nil, perr.RemoteQueryf("graphql errors: %s", strings.Join(msgs, "; "))
	}

	if len(env.Data) == 0 {
		return json.RawMessage("{}"), nil
	}
	return env.Data, nil
}

// waitForQuota suspends until the quota window resets when remaining
// dipped under the threshold; interruptible through ctx
func (c *Client) waitForQuota(ctx context.Context) error {
	c.mu.Lock()
	st := c.status
	c.mu.Unlock()

	if st == nil || !st.NeedsWait(c.opts.WaitThreshold) {
		return nil
	}
	wait := st.WaitFor(c.opts.WaitBuffer, c.now())
	if wait <= 0 {
		return nil
	}
	c.log.Warn().
		Int("remaining", st.Remaining).
		Int("limit", st.Limit).
		Dur("wait", wait).
		Msg("rate limit nearly exhausted, waiting for reset")
	return c.sleep(ctx, wait)
}

func (c *Client) updateStatus(h http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var prev RateLimitStatus
	if c.status != nil {
		prev = *c.status
	}
	st, ok := statusFromHeaders(h, prev)
	if !ok {
		return
	}
	c.status = &st
}

// sleepCtx waits d or returns early with the context error
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
