package domain

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

const maxAccountIDLength = 64

var accountIDRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)

// AccountID identifies an account in a store.
type AccountID string

// NewAccountID trims and validates a raw identifier.
func NewAccountID(raw string) (AccountID, error) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxAccountIDLength || !accountIDRe.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountID, raw)
	}
	return AccountID(id), nil
}

func (id AccountID) String() string {
	return string(id)
}

// Account is a single ledger. Every method is safe for concurrent use; a
// deposit or withdrawal is applied to balance and history under one lock.
type Account struct {
	mu         sync.RWMutex
	id         AccountID
	clock      Clock
	balance    Money
	operations []Operation
}

// NewAccount opens an empty account whose operations are stamped by clock.
func NewAccount(id AccountID, clock Clock) *Account {
	return &Account{
		id:      id,
		clock:   clock,
		balance: Zero,
	}
}

// RestoreAccount rebuilds an account from its persisted history. Each
// operation is replayed and must agree with its recorded balance.
func RestoreAccount(id AccountID, clock Clock, ops []Operation) (*Account, error) {
	a := NewAccount(id, clock)
	balance := Zero
	for i, op := range ops {
		if !op.Type().Valid() {
			return nil, fmt.Errorf("%w: operation %d has type %q", ErrCorruptLedger, i, op.Type())
		}
		if op.Amount().IsLessThanOrEqualToZero() {
			return nil, fmt.Errorf("%w: operation %d has amount %s", ErrCorruptLedger, i, op.Amount())
		}
		next, err := balance.Add(op.signedAmount())
		if err != nil {
			return nil, fmt.Errorf("%w: operation %d overflows the balance", ErrCorruptLedger, i)
		}
		balance = next
		if balance.IsNegative() || balance != op.BalanceAfter() {
			return nil, fmt.Errorf("%w: operation %d records balance %s, replay gives %s",
				ErrCorruptLedger, i, op.BalanceAfter(), balance)
		}
	}
	a.balance = balance
	a.operations = append([]Operation(nil), ops...)
	return a, nil
}

func (a *Account) ID() AccountID {
	return a.id
}

// Clock returns the time source the account stamps operations with.
func (a *Account) Clock() Clock {
	return a.clock
}

func (a *Account) Balance() Money {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// Operations returns a copy of the history in insertion order.
func (a *Account) Operations() []Operation {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Operation(nil), a.operations...)
}

// Len is the number of recorded operations.
func (a *Account) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.operations)
}

// Snapshot returns balance and history read under the same lock.
func (a *Account) Snapshot() (Money, []Operation) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance, append([]Operation(nil), a.operations...)
}

// Clone returns an independent copy holding the same history, read under
// one lock.
func (a *Account) Clone() *Account {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return &Account{
		id:         a.id,
		clock:      a.clock,
		balance:    a.balance,
		operations: append([]Operation(nil), a.operations...),
	}
}

// Deposit credits amount. Non-positive amounts are rejected with
// ErrAmountNotPositive, and a deposit the balance cannot hold with
// ErrBalanceLimit; either way the account is untouched.
func (a *Account) Deposit(amount Money) error {
	if amount.IsLessThanOrEqualToZero() {
		return ErrAmountNotPositive
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	balance, err := a.balance.Add(amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBalanceLimit, err)
	}
	a.balance = balance
	a.record(OperationTypeDeposit, amount)
	return nil
}

// Withdraw debits amount. It fails with ErrAmountNotPositive or
// ErrInsufficientFunds without changing anything.
func (a *Account) Withdraw(amount Money) error {
	if amount.IsLessThanOrEqualToZero() {
		return ErrAmountNotPositive
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.IsGreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	balance, err := a.balance.Subtract(amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBalanceLimit, err)
	}
	a.balance = balance
	a.record(OperationTypeWithdrawal, amount)
	return nil
}

// record must be called with a.mu held.
func (a *Account) record(typ OperationType, amount Money) {
	a.operations = append(a.operations, NewOperation(typ, a.clock.Now(), amount, a.balance))
}
