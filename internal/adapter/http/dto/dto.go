package dto

import (
	"time"

	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

// OpenAccountRequest is the optional body of POST /accounts. An empty id
// lets the server generate one.
type OpenAccountRequest struct {
	ID string `json:"id" binding:"omitempty,account_id"`
}

// AmountRequest is the body for deposits and withdrawals. Amount accepts a
// JSON number or a decimal string.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// AccountResponse is the account view returned after open/deposit/withdraw.
type AccountResponse struct {
	ID             string       `json:"id"`
	Balance        domain.Money `json:"balance"`
	OperationCount int          `json:"operation_count"`
}

// BalanceResponse is the response body of GET /accounts/:id/balance.
type BalanceResponse struct {
	ID      string       `json:"id"`
	Balance domain.Money `json:"balance"`
}

// OperationResponse is one statement line.
type OperationResponse struct {
	Type         string       `json:"type"`
	Timestamp    string       `json:"timestamp"` // RFC3339 in the operation's zone
	Amount       domain.Money `json:"amount"`
	BalanceAfter domain.Money `json:"balance_after"`
}

// StatementResponse carries the rendered table and the raw operations in
// insertion order.
type StatementResponse struct {
	ID         string              `json:"id"`
	Balance    domain.Money        `json:"balance"`
	Statement  string              `json:"statement"`
	Operations []OperationResponse `json:"operations"`
}

func ToAccountResponse(a *domain.Account) AccountResponse {
	balance, ops := a.Snapshot()
	return AccountResponse{
		ID:             a.ID().String(),
		Balance:        balance,
		OperationCount: len(ops),
	}
}

func ToStatementResponse(s *ports.Statement) StatementResponse {
	ops := make([]OperationResponse, len(s.Operations))
	for i, op := range s.Operations {
		ops[i] = OperationResponse{
			Type:         string(op.Type()),
			Timestamp:    op.Timestamp().Format(time.RFC3339),
			Amount:       op.Amount(),
			BalanceAfter: op.BalanceAfter(),
		}
	}
	return StatementResponse{
		ID:         s.AccountID.String(),
		Balance:    s.Balance,
		Statement:  s.Formatted,
		Operations: ops,
	}
}
