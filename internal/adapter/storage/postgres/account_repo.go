package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectOperations = `SELECT type, amount_minor, balance_after_minor, occurred_at, tz_name, tz_offset
		FROM account_operations WHERE account_id = $1 ORDER BY seq`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepo implements ports.AccountRepository. Operations are stored
// append-only; the balance is always replayed from them.
type AccountRepo struct {
	pool  Pool
	clock domain.Clock
}

// NewAccountRepo creates a new AccountRepo. Loaded accounts stamp new
// operations with clock.
func NewAccountRepo(pool Pool, clock domain.Clock) *AccountRepo {
	return &AccountRepo{pool: pool, clock: clock}
}

// Create inserts the account together with any operations it already holds.
func (r *AccountRepo) Create(ctx context.Context, account *domain.Account) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO accounts (id) VALUES ($1)`, account.ID().String())
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", domain.ErrAccountExists, account.ID())
			}
			return fmt.Errorf("insert account: %w", err)
		}
		return insertOperations(ctx, tx, account.ID(), account.Operations(), 0)
	})
}

// Find loads the account and replays its history.
func (r *AccountRepo) Find(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	if err := r.exists(ctx, r.pool, id, false); err != nil {
		return nil, err
	}
	return r.load(ctx, r.pool, id)
}

// Save appends the operations of account that are not stored yet. A history
// shorter than the stored one is stale and rejected.
func (r *AccountRepo) Save(ctx context.Context, account *domain.Account) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.exists(ctx, tx, account.ID(), true); err != nil {
			return err
		}
		var stored int
		err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM account_operations WHERE account_id = $1`,
			account.ID().String()).Scan(&stored)
		if err != nil {
			return fmt.Errorf("count operations: %w", err)
		}

		ops := account.Operations()
		if len(ops) < stored {
			return fmt.Errorf("%w: %s has %d stored operations, got %d",
				domain.ErrConcurrentUpdate, account.ID(), stored, len(ops))
		}
		return insertOperations(ctx, tx, account.ID(), ops[stored:], stored)
	})
}

// Update locks the account row for the duration of fn and persists the
// operations fn adds.
func (r *AccountRepo) Update(ctx context.Context, id domain.AccountID, fn func(*domain.Account) error) (*domain.Account, error) {
	var account *domain.Account
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.exists(ctx, tx, id, true); err != nil {
			return err
		}
		loaded, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}

		before := loaded.Len()
		if err := fn(loaded); err != nil {
			return err
		}
		if err := insertOperations(ctx, tx, id, loaded.Operations()[before:], before); err != nil {
			return err
		}
		account = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepo) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *AccountRepo) exists(ctx context.Context, q querier, id domain.AccountID, lock bool) error {
	query := `SELECT id FROM accounts WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var got string
	if err := q.QueryRow(ctx, query, id.String()).Scan(&got); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
		return fmt.Errorf("get account: %w", err)
	}
	return nil
}

func (r *AccountRepo) load(ctx context.Context, q querier, id domain.AccountID) (*domain.Account, error) {
	rows, err := q.Query(ctx, selectOperations, id.String())
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var ops []domain.Operation
	for rows.Next() {
		var (
			typ             string
			amount, balance int64
			occurredAt      time.Time
			tzName          string
			tzOffset        int32
		)
		if err := rows.Scan(&typ, &amount, &balance, &occurredAt, &tzName, &tzOffset); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		opType, err := domain.ParseOperationType(typ)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptLedger, err)
		}
		ts := occurredAt.In(time.FixedZone(tzName, int(tzOffset)))
		ops = append(ops, domain.NewOperation(opType, ts,
			domain.FromMinorUnits(amount), domain.FromMinorUnits(balance)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return domain.RestoreAccount(id, r.clock, ops)
}

// insertOperations stores ops at positions offset+1, offset+2, ...
func insertOperations(ctx context.Context, tx pgx.Tx, id domain.AccountID, ops []domain.Operation, offset int) error {
	query := `INSERT INTO account_operations
		(account_id, seq, type, amount_minor, balance_after_minor, occurred_at, tz_name, tz_offset)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, op := range ops {
		ts := op.Timestamp()
		tzName, tzOffset := ts.Zone()
		_, err := tx.Exec(ctx, query,
			id.String(), offset+i+1, string(op.Type()),
			op.Amount().MinorUnits(), op.BalanceAfter().MinorUnits(),
			ts.UTC(), tzName, int32(tzOffset),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", domain.ErrConcurrentUpdate, id)
			}
			return fmt.Errorf("insert operation: %w", err)
		}
	}
	return nil
}
