// Package memory holds the process-lifetime account store. Create one in
// main and share it; it is safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bank-ledger/internal/core/domain"
)

// entry serializes read-modify-write sequences on one account.
type entry struct {
	mu      sync.Mutex
	account *domain.Account
}

// AccountRepo implements ports.AccountRepository in memory.
type AccountRepo struct {
	mu       sync.RWMutex
	accounts map[domain.AccountID]*entry
}

// NewAccountRepo creates an empty store.
func NewAccountRepo() *AccountRepo {
	return &AccountRepo{accounts: make(map[domain.AccountID]*entry)}
}

// Create stores a new account.
func (r *AccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID()]; ok {
		return fmt.Errorf("%w: %s", domain.ErrAccountExists, account.ID())
	}
	r.accounts[account.ID()] = &entry{account: account}
	return nil
}

// Find returns the stored account.
func (r *AccountRepo) Find(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account, nil
}

// Save replaces the stored account for account.ID().
func (r *AccountRepo) Save(ctx context.Context, account *domain.Account) error {
	e, err := r.entry(account.ID())
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.account = account
	e.mu.Unlock()
	return nil
}

// Update runs fn with the account's entry locked.
func (r *AccountRepo) Update(ctx context.Context, id domain.AccountID, fn func(*domain.Account) error) (*domain.Account, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fn(e.account); err != nil {
		return nil, err
	}
	return e.account, nil
}

// Len returns the number of stored accounts.
func (r *AccountRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *AccountRepo) entry(id domain.AccountID) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}
	return e, nil
}

// Ping reports the store healthy for as long as the process runs.
func (r *AccountRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *AccountRepo) Name() string {
	return "memory"
}
