package ports

import (
	"context"

	"bank-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// StatementFormatter renders an account history for display.
type StatementFormatter interface {
	Render(operations []domain.Operation) (string, error)
}

// Statement is a rendered statement together with the operations it shows.
type Statement struct {
	AccountID  domain.AccountID
	Balance    domain.Money
	Formatted  string
	Operations []domain.Operation
}

// Statement export formats.
const (
	StatementFormatText = "text"
	StatementFormatCSV  = "csv"
)

// AccountService is the application entry point. Every error it returns is
// an *apperror.AppError.
type AccountService interface {
	Open(ctx context.Context, id string) (*domain.Account, error)
	Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error)
	Balance(ctx context.Context, id string) (domain.Money, error)
	Statement(ctx context.Context, id string) (*Statement, error)
	ExportStatement(ctx context.Context, id string, format string) (string, error)
}
