package service

import (
	"encoding/csv"
	"fmt"
	"strings"

	"bank-ledger/internal/core/domain"
)

const (
	statementDateLayout = "02/01/2006"
	statementTimeLayout = "15:04:05"
)

type statementColumn struct {
	title     string
	minWidth  int
	alignLeft bool
}

var statementColumns = []statementColumn{
	{title: "OPERATION", minWidth: len(domain.OperationTypeWithdrawal), alignLeft: true},
	{title: "DATE", minWidth: len(statementDateLayout)},
	{title: "TIME", minWidth: len(statementTimeLayout)},
	{title: "AMOUNT", minWidth: 10},
	{title: "BALANCE", minWidth: 10},
}

// statementRows returns one row of cells per operation, newest first.
// Order is the reverse of insertion order; timestamps are never compared.
func statementRows(ops []domain.Operation) [][]string {
	rows := make([][]string, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		ts := op.Timestamp()
		rows = append(rows, []string{
			string(op.Type()),
			ts.Format(statementDateLayout),
			ts.Format(statementTimeLayout),
			op.Amount().String(),
			op.BalanceAfter().String(),
		})
	}
	return rows
}

// TextStatementFormatter renders a pipe-delimited table with aligned columns.
type TextStatementFormatter struct{}

// NewTextStatementFormatter creates a TextStatementFormatter.
func NewTextStatementFormatter() *TextStatementFormatter {
	return &TextStatementFormatter{}
}

// Render implements ports.StatementFormatter.
func (f *TextStatementFormatter) Render(ops []domain.Operation) (string, error) {
	rows := statementRows(ops)

	widths := make([]int, len(statementColumns))
	header := make([]string, len(statementColumns))
	for i, col := range statementColumns {
		header[i] = col.title
		widths[i] = max(col.minWidth, len(col.title))
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	writeTableRow(&b, header, widths)
	b.WriteByte('|')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
	for _, row := range rows {
		writeTableRow(&b, row, widths)
	}
	return b.String(), nil
}

func writeTableRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for i, cell := range cells {
		pad := strings.Repeat(" ", widths[i]-len(cell))
		b.WriteByte(' ')
		if statementColumns[i].alignLeft {
			b.WriteString(cell + pad)
		} else {
			b.WriteString(pad + cell)
		}
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}

// CSVStatementFormatter renders the statement as RFC 4180 CSV, newest first.
type CSVStatementFormatter struct{}

// NewCSVStatementFormatter creates a CSVStatementFormatter.
func NewCSVStatementFormatter() *CSVStatementFormatter {
	return &CSVStatementFormatter{}
}

// Render implements ports.StatementFormatter.
func (f *CSVStatementFormatter) Render(ops []domain.Operation) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := make([]string, len(statementColumns))
	for i, col := range statementColumns {
		header[i] = strings.ToLower(col.title)
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	// WriteAll flushes and reports w.Error().
	if err := w.WriteAll(statementRows(ops)); err != nil {
		return "", fmt.Errorf("write csv rows: %w", err)
	}
	return b.String(), nil
}
