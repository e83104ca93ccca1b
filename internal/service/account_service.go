package service

import (
	"context"
	"errors"

	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	repo      ports.AccountRepository
	clock     domain.Clock
	formatter ports.StatementFormatter
	exporters map[string]ports.StatementFormatter
	log       zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl. clock stamps the
// operations of accounts opened through the service; formatter renders
// statements and serves the text export.
func NewAccountService(
	repo ports.AccountRepository,
	clock domain.Clock,
	formatter ports.StatementFormatter,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		repo:      repo,
		clock:     clock,
		formatter: formatter,
		exporters: map[string]ports.StatementFormatter{
			ports.StatementFormatText: formatter,
			ports.StatementFormatCSV:  NewCSVStatementFormatter(),
		},
		log: log,
	}
}

// Open creates an empty account. A blank id gets a generated UUID.
func (s *AccountServiceImpl) Open(ctx context.Context, id string) (*domain.Account, error) {
	if id == "" {
		id = uuid.New().String()
	}
	accountID, err := domain.NewAccountID(id)
	if err != nil {
		return nil, apperror.ValidationWrap("invalid account id", err)
	}

	account := domain.NewAccount(accountID, s.clock)
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, s.translate("open account", id, err)
	}

	s.log.Info().Str("account_id", id).Msg("account opened")
	return account, nil
}

// Deposit credits amount (in whole currency units) to the account.
func (s *AccountServiceImpl) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error) {
	return s.apply(ctx, "deposit", id, amount, (*domain.Account).Deposit)
}

// Withdraw debits amount (in whole currency units) from the account.
func (s *AccountServiceImpl) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error) {
	return s.apply(ctx, "withdraw", id, amount, (*domain.Account).Withdraw)
}

func (s *AccountServiceImpl) apply(
	ctx context.Context,
	action string,
	id string,
	amount decimal.Decimal,
	op func(*domain.Account, domain.Money) error,
) (*domain.Account, error) {
	accountID, err := domain.NewAccountID(id)
	if err != nil {
		return nil, apperror.ValidationWrap("invalid account id", err)
	}
	money, err := domain.FromMajorUnits(amount)
	if err != nil {
		return nil, apperror.ValidationWrap("invalid amount", err)
	}

	// Copied while the store still holds the account, so a later concurrent
	// operation cannot leak into the result.
	var account *domain.Account
	_, err = s.repo.Update(ctx, accountID, func(a *domain.Account) error {
		if err := op(a, money); err != nil {
			return err
		}
		account = a.Clone()
		return nil
	})
	if err != nil {
		return nil, s.translate(action, id, err)
	}

	s.log.Info().
		Str("account_id", id).
		Str("action", action).
		Str("amount", money.String()).
		Str("balance", account.Balance().String()).
		Msg("operation recorded")

	return account, nil
}

// Balance returns the current balance of the account.
func (s *AccountServiceImpl) Balance(ctx context.Context, id string) (domain.Money, error) {
	account, err := s.find(ctx, "get balance", id)
	if err != nil {
		return domain.Zero, err
	}
	return account.Balance(), nil
}

// Statement renders the account history with the configured formatter.
func (s *AccountServiceImpl) Statement(ctx context.Context, id string) (*ports.Statement, error) {
	account, err := s.find(ctx, "get statement", id)
	if err != nil {
		return nil, err
	}

	balance, ops := account.Snapshot()
	formatted, err := s.formatter.Render(ops)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return &ports.Statement{
		AccountID:  account.ID(),
		Balance:    balance,
		Formatted:  formatted,
		Operations: ops,
	}, nil
}

// ExportStatement renders the history in the requested format ("text" or "csv").
func (s *AccountServiceImpl) ExportStatement(ctx context.Context, id string, format string) (string, error) {
	if format == "" {
		format = ports.StatementFormatText
	}
	formatter, ok := s.exporters[format]
	if !ok {
		return "", apperror.Validation("invalid format: must be text or csv")
	}

	account, err := s.find(ctx, "export statement", id)
	if err != nil {
		return "", err
	}
	body, err := formatter.Render(account.Operations())
	if err != nil {
		return "", apperror.InternalError(err)
	}
	return body, nil
}

func (s *AccountServiceImpl) find(ctx context.Context, action string, id string) (*domain.Account, error) {
	accountID, err := domain.NewAccountID(id)
	if err != nil {
		return nil, apperror.ValidationWrap("invalid account id", err)
	}
	account, err := s.repo.Find(ctx, accountID)
	if err != nil {
		return nil, s.translate(action, id, err)
	}
	return account, nil
}

// translate maps domain and storage failures onto the application error type.
func (s *AccountServiceImpl) translate(action string, id string, err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, domain.ErrAmountNotPositive):
		appErr = apperror.ErrAmountNotPositive(action, err)
	case errors.Is(err, domain.ErrInsufficientFunds):
		appErr = apperror.ErrInsufficientFunds(action, err)
	case errors.Is(err, domain.ErrBalanceLimit):
		appErr = apperror.ErrBalanceLimit(action, err)
	case errors.Is(err, domain.ErrAccountNotFound):
		appErr = apperror.ErrAccountNotFound(action, id, err)
	case errors.Is(err, domain.ErrAccountExists):
		appErr = apperror.ErrAccountExists(id, err)
	case errors.Is(err, domain.ErrConcurrentUpdate):
		appErr = apperror.ErrConcurrentUpdate(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		appErr = apperror.ErrStorageUnavailable(err)
	default:
		s.log.Error().Err(err).Str("account_id", id).Str("action", action).Msg("account operation failed")
		return apperror.InternalError(err)
	}

	s.log.Warn().
		Str("account_id", id).
		Str("action", action).
		Str("code", appErr.Code).
		Msg(domain.Reason(err))
	return appErr
}
