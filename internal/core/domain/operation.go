package domain

import (
	"fmt"
	"time"
)

// OperationType is the kind of ledger event.
type OperationType string

const (
	OperationTypeDeposit    OperationType = "DEPOSIT"
	OperationTypeWithdrawal OperationType = "WITHDRAWAL"
)

// Valid reports whether t is one of the known operation types.
func (t OperationType) Valid() bool {
	return t == OperationTypeDeposit || t == OperationTypeWithdrawal
}

// ParseOperationType converts a stored type name back into an OperationType.
func ParseOperationType(s string) (OperationType, error) {
	t := OperationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown operation type %q", s)
	}
	return t, nil
}

// Operation is one immutable ledger entry.
type Operation struct {
	typ          OperationType
	timestamp    time.Time
	amount       Money
	balanceAfter Money
}

// NewOperation builds an Operation. Accounts create their own operations;
// this is exported for stores rebuilding history and for statement tests.
func NewOperation(typ OperationType, timestamp time.Time, amount, balanceAfter Money) Operation {
	return Operation{
		typ:          typ,
		timestamp:    timestamp,
		amount:       amount,
		balanceAfter: balanceAfter,
	}
}

func (o Operation) Type() OperationType { return o.typ }

func (o Operation) Timestamp() time.Time { return o.timestamp }

func (o Operation) Amount() Money { return o.amount }

func (o Operation) BalanceAfter() Money { return o.balanceAfter }

// Date returns midnight of the operation's calendar day in its own location.
func (o Operation) Date() time.Time {
	y, m, d := o.timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, o.timestamp.Location())
}

// Equal compares operations by value. Timestamps are compared as instants.
func (o Operation) Equal(other Operation) bool {
	return o.typ == other.typ &&
		o.timestamp.Equal(other.timestamp) &&
		o.amount == other.amount &&
		o.balanceAfter == other.balanceAfter
}

// signedAmount is the effect of the operation on the balance. amount is
// positive in any valid operation, so negating it cannot overflow.
func (o Operation) signedAmount() Money {
	if o.typ == OperationTypeWithdrawal {
		return Money{minor: -o.amount.minor}
	}
	return o.amount
}
