package campaign

import (
	"context"

	"github.com/google/uuid"
)

// AttemptRepository stores the attempt log across runs. Campaign definitions
// themselves are never persisted; only outcomes are.
type AttemptRepository interface {
	Record(ctx context.Context, runID uuid.UUID, attempts []Attempt) error
	List(ctx context.Context, limit, offset int) ([]Attempt, int, error)
	Stats(ctx context.Context) (map[Status]int, error)
}
