package campaign

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type attemptRepoPG struct {
	pool *pgxpool.Pool
}

// NewAttemptRepoPG creates a Postgres-backed attempt log.
func NewAttemptRepoPG(pool *pgxpool.Pool) AttemptRepository {
	return &attemptRepoPG{pool: pool}
}

func (r *attemptRepoPG) Record(ctx context.Context, runID uuid.UUID, attempts []Attempt) error {
	if len(attempts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range attempts {
		batch.Queue(`
			INSERT INTO notification_attempt (
				id, run_id, patient_id, patient_name, channel, message,
				criteria, status, failure_reason, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			a.ID, runID, a.PatientID, a.PatientName, a.Channel, a.Message,
			a.Criteria, a.Status, a.FailureReason, a.Timestamp,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range attempts {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
	}
	return nil
}

func (r *attemptRepoPG) List(ctx context.Context, limit, offset int) ([]Attempt, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notification_attempt`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("attempt count: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, patient_name, channel, message, criteria,
			status, failure_reason, created_at
		FROM notification_attempt
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("attempt list: %w", err)
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.PatientName, &a.Channel, &a.Message,
			&a.Criteria, &a.Status, &a.FailureReason, &a.Timestamp,
		); err != nil {
			return nil, 0, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, total, nil
}

func (r *attemptRepoPG) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM notification_attempt GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("attempt stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan attempt stats: %w", err)
		}
		stats[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempt stats: %w", err)
	}
	return stats, nil
}
