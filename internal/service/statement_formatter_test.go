package service

import (
	"strings"
	"testing"
	"time"

	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	emptyStatementHeader  = "| OPERATION  |       DATE |     TIME |     AMOUNT |    BALANCE |\n"
	emptyStatementDivider = "|------------|------------|----------|------------|------------|\n"
)

func render(t *testing.T, f ports.StatementFormatter, ops []domain.Operation) string {
	t.Helper()
	out, err := f.Render(ops)
	require.NoError(t, err)
	return out
}

// april2025Account replays deposit 1000 (10/04), deposit 2000 (13/04) and
// withdraw 500 (14/04).
func april2025Account(t *testing.T) *domain.Account {
	t.Helper()
	clock := domain.NewFixedClockAt(2025, time.April, 10, 9, 30, 0, time.UTC)
	account := domain.NewAccount("acc-1", clock)

	require.NoError(t, account.Deposit(domain.MustParseMoney("1000")))
	clock.SetDate(2025, time.April, 13)
	require.NoError(t, account.Deposit(domain.MustParseMoney("2000")))
	clock.SetDate(2025, time.April, 14)
	require.NoError(t, account.Withdraw(domain.MustParseMoney("500")))
	return account
}

func TestTextStatementFormatter_Render_NewestFirst(t *testing.T) {
	account := april2025Account(t)

	out := render(t, NewTextStatementFormatter(), account.Operations())

	expected := emptyStatementHeader + emptyStatementDivider +
		"| WITHDRAWAL | 14/04/2025 | 09:30:00 |     500.00 |    2500.00 |\n" +
		"| DEPOSIT    | 13/04/2025 | 09:30:00 |    2000.00 |    3000.00 |\n" +
		"| DEPOSIT    | 10/04/2025 | 09:30:00 |    1000.00 |    1000.00 |\n"
	assert.Equal(t, expected, out)
}

func TestTextStatementFormatter_Render_Empty(t *testing.T) {
	out := render(t, NewTextStatementFormatter(), nil)

	assert.Equal(t, emptyStatementHeader+emptyStatementDivider, out)
	for _, title := range []string{"OPERATION", "DATE", "TIME", "AMOUNT", "BALANCE"} {
		assert.Contains(t, out, title)
	}
}

func TestTextStatementFormatter_Render_ConsistentWidths(t *testing.T) {
	clock := domain.NewFixedClockAt(2025, time.January, 1, 0, 0, 0, time.UTC)
	account := domain.NewAccount("acc-1", clock)
	require.NoError(t, account.Deposit(domain.MustParseMoney("0.01")))
	require.NoError(t, account.Deposit(domain.MustParseMoney("98765432109.99")))
	require.NoError(t, account.Withdraw(domain.MustParseMoney("7")))

	out := render(t, NewTextStatementFormatter(), account.Operations())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)

	width := len(lines[0])
	for i, line := range lines {
		assert.Len(t, line, width, "line %d", i)
		assert.True(t, strings.HasPrefix(line, "|"))
		assert.True(t, strings.HasSuffix(line, "|"))
	}
	// the wide amount stretches its column past the minimum
	assert.Contains(t, out, "| 98765432109.99 |")
}

func TestTextStatementFormatter_Render_DoesNotMutateInput(t *testing.T) {
	ops := april2025Account(t).Operations()
	before := append([]domain.Operation(nil), ops...)

	render(t, NewTextStatementFormatter(), ops)
	render(t, NewCSVStatementFormatter(), ops)

	require.Len(t, ops, len(before))
	for i := range ops {
		assert.True(t, before[i].Equal(ops[i]))
	}
	assert.Equal(t, domain.OperationTypeDeposit, ops[0].Type())
}

func TestTextStatementFormatter_Render_OrdersByInsertionNotTimestamp(t *testing.T) {
	clock := domain.NewFixedClockAt(2025, time.April, 20, 12, 0, 0, time.UTC)
	account := domain.NewAccount("acc-1", clock)
	require.NoError(t, account.Deposit(domain.MustParseMoney("10")))
	// clock moves backwards between operations
	clock.SetDate(2025, time.April, 1)
	require.NoError(t, account.Deposit(domain.MustParseMoney("20")))

	out := render(t, NewTextStatementFormatter(), account.Operations())
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[2], "01/04/2025")
	assert.Contains(t, lines[2], "30.00")
	assert.Contains(t, lines[3], "20/04/2025")
	assert.Contains(t, lines[3], "10.00")
}

func TestTextStatementFormatter_Render_UsesOperationZone(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	clock := domain.NewFixedClockAt(2025, time.April, 10, 23, 30, 0, time.UTC)
	account := domain.NewAccount("acc-1", clock)
	require.NoError(t, account.Deposit(domain.MustParseMoney("1")))
	clock.Set(clock.Now().In(paris))
	require.NoError(t, account.Deposit(domain.MustParseMoney("1")))

	out := render(t, NewTextStatementFormatter(), account.Operations())

	assert.Contains(t, out, "| 11/04/2025 | 01:30:00 |")
	assert.Contains(t, out, "| 10/04/2025 | 23:30:00 |")
}

func TestCSVStatementFormatter_Render(t *testing.T) {
	account := april2025Account(t)

	out := render(t, NewCSVStatementFormatter(), account.Operations())

	expected := "operation,date,time,amount,balance\n" +
		"WITHDRAWAL,14/04/2025,09:30:00,500.00,2500.00\n" +
		"DEPOSIT,13/04/2025,09:30:00,2000.00,3000.00\n" +
		"DEPOSIT,10/04/2025,09:30:00,1000.00,1000.00\n"
	assert.Equal(t, expected, out)
}

func TestCSVStatementFormatter_Render_Empty(t *testing.T) {
	out := render(t, NewCSVStatementFormatter(), nil)
	assert.Equal(t, "operation,date,time,amount,balance\n", out)
}
