package module

import (
	"time"

	"ghsummary/internal/platform/config"
)

// Options controls the GitHub transport and the report service
type Options struct {
	Token         string
	APIURL        string
	UserAgent     string
	Timeout       time.Duration
	WaitThreshold int
	WaitBuffer    time.Duration
	PageSize      int
	MaxPages      int
	EarliestYear  int
}

// FromConfig reads with GITHUB_ prefix; TOKEN is the only required key
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("GITHUB_")
	return Options{
		Token:         c.MustString("TOKEN"),
		APIURL:        c.MayString("API_URL", ""),
		UserAgent:     c.MayString("USER_AGENT", ""),
		Timeout:       c.MayDuration("TIMEOUT", 0),
		WaitThreshold: c.MayInt("WAIT_THRESHOLD", 0),
		WaitBuffer:    c.MayDuration("WAIT_BUFFER", 0),
		PageSize:      c.MayInt("PAGE_SIZE", 0),
		MaxPages:      c.MayInt("MAX_PAGES", 0),
		EarliestYear:  c.MayInt("EARLIEST_YEAR", 0),
	}
}
