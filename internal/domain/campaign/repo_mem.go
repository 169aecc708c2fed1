package campaign

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryAttemptRepo keeps the attempt log in process memory, in the order
// runs were recorded.
type InMemoryAttemptRepo struct {
	mu       sync.RWMutex
	attempts []Attempt
}

func NewInMemoryAttemptRepo() *InMemoryAttemptRepo {
	return &InMemoryAttemptRepo{}
}

func (r *InMemoryAttemptRepo) Record(_ context.Context, _ uuid.UUID, attempts []Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempts...)
	return nil
}

func (r *InMemoryAttemptRepo) List(_ context.Context, limit, offset int) ([]Attempt, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.attempts)
	if offset >= total {
		return []Attempt{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	out := make([]Attempt, end-offset)
	copy(out, r.attempts[offset:end])
	return out, total, nil
}

func (r *InMemoryAttemptRepo) Stats(_ context.Context) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[Status]int)
	for _, a := range r.attempts {
		stats[a.Status]++
	}
	return stats, nil
}
