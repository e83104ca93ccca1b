//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("bank_ledger"),
		postgres.WithUsername("ledger"),
		postgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestAccountRepo_Integration_RoundTrip(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	clock := domain.NewFixedClockAt(2025, time.April, 10, 23, 30, 0, paris)
	repo := NewAccountRepo(pool, clock)
	require.NoError(t, repo.Ping(ctx))

	require.NoError(t, repo.Create(ctx, domain.NewAccount("acc-1", clock)))
	assert.ErrorIs(t, repo.Create(ctx, domain.NewAccount("acc-1", clock)), domain.ErrAccountExists)

	_, err = repo.Update(ctx, "acc-1", func(a *domain.Account) error {
		return a.Deposit(domain.MustParseMoney("1000"))
	})
	require.NoError(t, err)
	clock.SetDate(2025, time.April, 14)
	_, err = repo.Update(ctx, "acc-1", func(a *domain.Account) error {
		return a.Withdraw(domain.MustParseMoney("200"))
	})
	require.NoError(t, err)

	account, err := repo.Find(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "800.00", account.Balance().String())
	ops := account.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, "10/04/2025 23:30:00", ops[0].Timestamp().Format("02/01/2006 15:04:05"))
	assert.Equal(t, "14/04/2025 23:30:00", ops[1].Timestamp().Format("02/01/2006 15:04:05"))
}

func TestAccountRepo_Integration_ConcurrentWithdrawals(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	clock := domain.NewFixedClockAt(2025, time.April, 10, 9, 0, 0, time.UTC)
	repo := NewAccountRepo(pool, clock)
	require.NoError(t, repo.Ping(ctx))

	require.NoError(t, repo.Create(ctx, domain.NewAccount("acc-1", clock)))
	_, err := repo.Update(ctx, "acc-1", func(a *domain.Account) error {
		return a.Deposit(domain.MustParseMoney("100"))
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "acc-1", func(a *domain.Account) error {
				return a.Withdraw(domain.MustParseMoney("7"))
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	account, err := repo.Find(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 14, succeeded)
	assert.Equal(t, "2.00", account.Balance().String())
	assert.Equal(t, 15, account.Len())
}
