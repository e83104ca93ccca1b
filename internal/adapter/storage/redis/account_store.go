package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bank-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const defaultMaxRetries = 10

// AccountStore implements ports.AccountRepository on Redis. Each account is
// one JSON document; writes use WATCH/MULTI and are retried on conflict.
type AccountStore struct {
	client     *goredis.Client
	clock      domain.Clock
	prefix     string
	maxRetries int
}

// NewAccountStore creates a Redis-backed account store. maxRetries bounds
// the optimistic retries of a contended write; zero or less uses the default.
func NewAccountStore(client *goredis.Client, clock domain.Clock, maxRetries int) *AccountStore {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &AccountStore{
		client:     client,
		clock:      clock,
		prefix:     "account:",
		maxRetries: maxRetries,
	}
}

type accountDoc struct {
	ID         string         `json:"id"`
	Operations []operationDoc `json:"operations"`
}

type operationDoc struct {
	Type         string    `json:"type"`
	Amount       int64     `json:"amount_minor"`
	BalanceAfter int64     `json:"balance_after_minor"`
	OccurredAt   time.Time `json:"occurred_at"`
	TZName       string    `json:"tz_name"`
	TZOffset     int       `json:"tz_offset"`
}

// Create stores the account unless the key already exists.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	data, err := encodeAccount(account)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.key(account.ID()), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis account create: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrAccountExists, account.ID())
	}
	return nil
}

// Find loads the account document and replays it.
func (s *AccountStore) Find(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	return s.get(ctx, s.client, id)
}

// Save overwrites the stored document of an existing account.
func (s *AccountStore) Save(ctx context.Context, account *domain.Account) error {
	data, err := encodeAccount(account)
	if err != nil {
		return err
	}
	key := s.key(account.ID())
	return s.watch(ctx, key, func(tx *goredis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("redis account exists: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, account.ID())
		}
		return s.write(ctx, tx, key, data)
	})
}

// Update applies fn to the current document and writes it back if the key
// did not change in between.
func (s *AccountStore) Update(ctx context.Context, id domain.AccountID, fn func(*domain.Account) error) (*domain.Account, error) {
	key := s.key(id)
	var account *domain.Account
	err := s.watch(ctx, key, func(tx *goredis.Tx) error {
		loaded, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(loaded); err != nil {
			return err
		}
		data, err := encodeAccount(loaded)
		if err != nil {
			return err
		}
		if err := s.write(ctx, tx, key, data); err != nil {
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

func (s *AccountStore) key(id domain.AccountID) string {
	return s.prefix + id.String()
}

func (s *AccountStore) watch(ctx context.Context, key string, fn func(*goredis.Tx) error) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, fn, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %s after %d attempts", domain.ErrConcurrentUpdate, key, s.maxRetries)
}

func (s *AccountStore) write(ctx context.Context, tx *goredis.Tx, key string, data []byte) error {
	_, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		return nil
	})
	if err != nil && !errors.Is(err, goredis.TxFailedErr) {
		return fmt.Errorf("redis account write: %w", err)
	}
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func (s *AccountStore) get(ctx context.Context, c getter, id domain.AccountID) (*domain.Account, error) {
	data, err := c.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
		return nil, fmt.Errorf("redis account get: %w", err)
	}
	return decodeAccount(data, id, s.clock)
}

func encodeAccount(account *domain.Account) ([]byte, error) {
	ops := account.Operations()
	doc := accountDoc{ID: account.ID().String(), Operations: make([]operationDoc, len(ops))}
	for i, op := range ops {
		name, offset := op.Timestamp().Zone()
		doc.Operations[i] = operationDoc{
			Type:         string(op.Type()),
			Amount:       op.Amount().MinorUnits(),
			BalanceAfter: op.BalanceAfter().MinorUnits(),
			OccurredAt:   op.Timestamp().UTC(),
			TZName:       name,
			TZOffset:     offset,
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal account: %w", err)
	}
	return data, nil
}

func decodeAccount(data []byte, id domain.AccountID, clock domain.Clock) (*domain.Account, error) {
	var doc accountDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptLedger, err)
	}
	if doc.ID != id.String() {
		return nil, fmt.Errorf("%w: document for %q stored under %q", domain.ErrCorruptLedger, doc.ID, id)
	}

	ops := make([]domain.Operation, 0, len(doc.Operations))
	for _, od := range doc.Operations {
		typ, err := domain.ParseOperationType(od.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptLedger, err)
		}
		ts := od.OccurredAt.In(time.FixedZone(od.TZName, od.TZOffset))
		ops = append(ops, domain.NewOperation(typ, ts,
			domain.FromMinorUnits(od.Amount), domain.FromMinorUnits(od.BalanceAfter)))
	}
	return domain.RestoreAccount(id, clock, ops)
}

// Ping checks the Redis server answers.
func (s *AccountStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *AccountStore) Name() string {
	return "redis"
}
