package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is the parent of every rejected deposit or withdrawal.
var ErrInvalidOperation = errors.New("invalid operation")

var (
	ErrAmountNotPositive = fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrInvalidOperation)
	ErrBalanceLimit      = fmt.Errorf("%w: balance limit exceeded", ErrInvalidOperation)
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountExists    = errors.New("account already exists")
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrConcurrentUpdate = errors.New("account was modified concurrently")
	ErrCorruptLedger    = errors.New("corrupt ledger")
)

var (
	ErrMoneyNotFinite  = errors.New("money: value is not finite")
	ErrMoneyOutOfRange = errors.New("money: value out of range")
	ErrMoneyMalformed  = errors.New("money: malformed value")
)

// Reason returns the human-readable reason carried by an invalid operation
// error, or the error text itself for anything else.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrAmountNotPositive):
		return "amount must be positive"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient funds"
	case errors.Is(err, ErrBalanceLimit):
		return "balance limit exceeded"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
