package domain

import "context"

// SourcePort fetches the year level contribution totals for a user
// the returned snapshot carries zero line counts tagged MethodNone; the
// service fills them in via LinesPort
type SourcePort interface {
	FetchSnapshot(ctx context.Context, username string, p Period) (Snapshot, error)
}

// LinesPort computes the lines added/deleted delta for a period
// strategy failures degrade to a zero delta tagged MethodError; the error
// return is reserved for context cancellation
type LinesPort interface {
	Calculate(ctx context.Context, username string, p Period) (LineDelta, error)
}

// StoragePort persists and retrieves snapshots
// Retrieve returns ErrNotFound when no snapshot exists for the year
type StoragePort interface {
	Store(ctx context.Context, s Snapshot) (string, error)
	Retrieve(ctx context.Context, username string, year int) (Snapshot, error)
	YearsWithData(ctx context.Context, username string) ([]int, error)
}

// ProgressPort receives coarse progress milestones during long fetches
// fire and forget, implementations must never fail the underlying fetch
type ProgressPort interface {
	Report(ctx context.Context, message string)
}
