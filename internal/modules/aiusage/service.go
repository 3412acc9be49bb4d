package aiusage

import (
	"context"
	"errors"
	"time"
)

// Service orchestrates AI usage metering.
type Service struct {
	store     *Store
	allowance int
	now       func() time.Time
}

// NewService creates a Service granting allowance calls per key per month.
// A non-positive allowance falls back to DefaultTokens.
func NewService(store *Store, allowance int) *Service {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &Service{store: store, allowance: allowance, now: time.Now}
}

// Allowance reports the monthly allowance per key.
func (s *Service) Allowance() int { return s.allowance }

// UseToken deducts one call from the key's monthly allowance.
// If the key has no row yet it is initialised and the call is immediately consumed.
// Returns ErrInsufficientTokens when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, key string) error {
	month := s.now().Format("2006-01")
	err := s.store.UseToken(ctx, key, month, s.allowance)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureKey(ctx, key, month, s.allowance); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, key, month, s.allowance)
}
