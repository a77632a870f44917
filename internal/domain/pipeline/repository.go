package pipeline

import "context"

type Repository interface {
	SaveRun(ctx context.Context, run Run) error
	// ListRecent pages through runs, newest first. An empty kind lists all.
	ListRecent(ctx context.Context, kind Kind, limit, offset int) ([]Run, error)
}
