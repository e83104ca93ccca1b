package handler

import (
	"errors"
	"io"

	"bank-ledger/internal/adapter/http/dto"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/apperror"
	"bank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

var exportContentTypes = map[string]string{
	ports.StatementFormatText: "text/plain; charset=utf-8",
	ports.StatementFormatCSV:  "text/csv; charset=utf-8",
}

// AccountHandler handles the account ledger endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// Open handles POST /api/v1/accounts. The body is optional.
func (h *AccountHandler) Open(c *gin.Context) {
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.ValidationWrap(dto.ValidationMessage(err), err))
		return
	}

	account, err := h.accountSvc.Open(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToAccountResponse(account))
}

// Deposit handles POST /api/v1/accounts/:id/deposits.
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationWrap(dto.ValidationMessage(err), err))
		return
	}

	account, err := h.accountSvc.Deposit(c.Request.Context(), c.Param("id"), *req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponse(account))
}

// Withdraw handles POST /api/v1/accounts/:id/withdrawals.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationWrap(dto.ValidationMessage(err), err))
		return
	}

	account, err := h.accountSvc.Withdraw(c.Request.Context(), c.Param("id"), *req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponse(account))
}

// Balance handles GET /api/v1/accounts/:id/balance.
func (h *AccountHandler) Balance(c *gin.Context) {
	id := c.Param("id")
	balance, err := h.accountSvc.Balance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{ID: id, Balance: balance})
}

// Statement handles GET /api/v1/accounts/:id/statement.
func (h *AccountHandler) Statement(c *gin.Context) {
	stmt, err := h.accountSvc.Statement(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToStatementResponse(stmt))
}

// ExportStatement handles GET /api/v1/accounts/:id/statement/export?format=text|csv.
func (h *AccountHandler) ExportStatement(c *gin.Context) {
	format := c.DefaultQuery("format", ports.StatementFormatText)
	if format == "" {
		format = ports.StatementFormatText
	}
	body, err := h.accountSvc.ExportStatement(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Text(c, exportContentTypes[format], body)
}
