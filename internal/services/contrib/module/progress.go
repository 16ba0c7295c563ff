package module

import (
	"context"

	"ghsummary/internal/platform/logger"
	"ghsummary/internal/services/contrib/domain"
)

// logProgress reports fetch milestones through the structured log
// stands in for a chat or websocket channel in server deployments
type logProgress struct {
	log logger.Logger
}

// NewLogProgress returns a ProgressPort that logs milestones at info level
func NewLogProgress() domain.ProgressPort {
	return &logProgress{log: *logger.Named("contrib.progress")}
}

func (p *logProgress) Report(_ context.Context, message string) {
	p.log.Info().Msg(message)
}

// NoopProgress discards every milestone
type NoopProgress struct{}

// Report implements domain.ProgressPort
func (NoopProgress) Report(context.Context, string) {}
