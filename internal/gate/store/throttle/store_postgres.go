package throttle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"opus/internal/gate/models"
)

// PostgresStore persists throttle state in PostgreSQL. The whole check
// transition runs as a single INSERT ... ON CONFLICT ... RETURNING so
// concurrent checks against one author serialize on the row and no strike is
// ever lost to a read-modify-write race.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, author string) (*models.ThrottleState, error) {
	query := `
		SELECT author, checks_remaining, high_similarity_count, is_banned, updated_at
		FROM gate_throttles
		WHERE author = $1
	`
	state, err := scanThrottle(s.db.QueryRowContext(ctx, query, author))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get throttle state: %w", err)
	}
	return state, nil
}

func (s *PostgresStore) RecordCheckAtomic(ctx context.Context, author string, similarityPercent float64, now time.Time) (bool, *models.ThrottleState, error) {
	// Banned rows pass through untouched; everything else decrements the
	// advisory allowance, counts a strike at or above the threshold, and
	// flips the ban when the strike cap is reached.
	query := `
		INSERT INTO gate_throttles (author, checks_remaining, high_similarity_count, is_banned, updated_at)
		VALUES (
			$1,
			$6 - 1,
			CASE WHEN $2 >= $4 THEN 1 ELSE 0 END,
			(CASE WHEN $2 >= $4 THEN 1 ELSE 0 END) >= $5,
			$3
		)
		ON CONFLICT (author) DO UPDATE SET
			checks_remaining = CASE
				WHEN gate_throttles.is_banned THEN gate_throttles.checks_remaining
				ELSE GREATEST(gate_throttles.checks_remaining - 1, 0)
			END,
			high_similarity_count = CASE
				WHEN gate_throttles.is_banned THEN gate_throttles.high_similarity_count
				WHEN $2 >= $4 AND gate_throttles.high_similarity_count < $5 THEN gate_throttles.high_similarity_count + 1
				ELSE gate_throttles.high_similarity_count
			END,
			is_banned = gate_throttles.is_banned OR (CASE
				WHEN $2 >= $4 AND gate_throttles.high_similarity_count < $5 THEN gate_throttles.high_similarity_count + 1
				ELSE gate_throttles.high_similarity_count
			END) >= $5,
			updated_at = CASE
				WHEN gate_throttles.is_banned THEN gate_throttles.updated_at
				ELSE $3
			END
		RETURNING author, checks_remaining, high_similarity_count, is_banned, updated_at
	`
	state, err := scanThrottle(s.db.QueryRowContext(ctx, query,
		author,
		similarityPercent,
		now,
		models.SimilarityThreshold,
		models.MaxStrikes,
		models.InitialChecks,
	))
	if err != nil {
		return false, nil, fmt.Errorf("record check atomic: %w", err)
	}
	return !state.IsBanned, state, nil
}

type throttleRow interface {
	Scan(dest ...any) error
}

func scanThrottle(row throttleRow) (*models.ThrottleState, error) {
	var state models.ThrottleState
	if err := row.Scan(&state.Author, &state.ChecksRemaining, &state.HighSimilarityCount, &state.IsBanned, &state.UpdatedAt); err != nil {
		return nil, err
	}
	return &state, nil
}
