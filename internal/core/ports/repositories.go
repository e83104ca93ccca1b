package ports

import (
	"context"

	"bank-ledger/internal/core/domain"
)

// AccountRepository stores accounts keyed by identifier.
// Implementations must be safe for concurrent use and must serialize Update
// calls for the same identifier.
type AccountRepository interface {
	// Create stores a new account. Returns domain.ErrAccountExists if the
	// identifier is taken.
	Create(ctx context.Context, account *domain.Account) error
	// Find returns domain.ErrAccountNotFound for unknown identifiers.
	Find(ctx context.Context, id domain.AccountID) (*domain.Account, error)
	// Save persists the current state of an account that was previously
	// created. Operations are append-only.
	Save(ctx context.Context, account *domain.Account) error
	// Update runs fn against the account while holding its lock and saves
	// the result when fn returns nil. Nothing is persisted if fn fails.
	Update(ctx context.Context, id domain.AccountID, fn func(*domain.Account) error) (*domain.Account, error)
}
