package aiusage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles ai_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseToken atomically checks the monthly quota and deducts one call.
// It resets the counter to allowance when last_reset_month is behind month.
// Returns ErrInsufficientTokens when 0 rows are updated (quota exhausted or key absent).
func (s *Store) UseToken(ctx context.Context, key, month string, allowance int) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE quota_key = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, allowance, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureKey inserts a new ai_usage row for key with the full allowance.
// An existing row is left alone (ON CONFLICT DO NOTHING).
func (s *Store) EnsureKey(ctx context.Context, key, month string, allowance int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (quota_key, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (quota_key) DO NOTHING
	`, key, allowance, month)
	return err
}
