package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

// Store keeps chat turns in chat_history.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Recent returns up to limit turns for the plan, oldest first.
func (s *Store) Recent(ctx context.Context, planID int64, limit int) ([]Turn, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_message, ai_message FROM chat_history
		WHERE plan_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, planID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.User, &t.AI); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lo.Reverse(turns), nil
}

func (s *Store) Append(ctx context.Context, planID int64, t Turn) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO chat_history (plan_id, user_message, ai_message)
		VALUES ($1, $2, $3)
	`, planID, t.User, t.AI)
	return err
}
