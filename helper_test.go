package codexi

import (
	"testing"

	"github.com/etnz/codexi/date"
	"github.com/shopspring/decimal"
)

// dec is a shortcut for tests.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testLedger returns a ledger with ten regular transactions appended out of order.
//
// Credit 310.00, debit 134.80, balance 175.20.
func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	ops := []struct {
		flow        Flow
		day         string
		amount      string
		description string
	}{
		{Credit, "2025-11-05", "100.00", "Atm"},
		{Credit, "2025-10-08", "50.00", "Atm"},
		{Debit, "2025-12-05", "25.50", "Minimarket"},
		{Debit, "2025-10-04", "14.20", "Book"},
		{Debit, "2025-10-21", "44.80", "Post office"},
		{Credit, "2025-12-15", "150.00", "Atm"},
		{Debit, "2025-11-12", "15.70", "Bakery"},
		{Debit, "2025-10-21", "11.00", "Fruits"},
		{Credit, "2025-12-10", "10.00", "Refund"},
		{Debit, "2025-11-20", "23.60", "Newspapers"},
	}
	for _, op := range ops {
		if err := l.Append(Regular(Transaction), op.flow, op.day, dec(op.amount), op.description); err != nil {
			t.Fatalf("Append(%s %s %s) unexpected error: %v", op.flow, op.day, op.amount, err)
		}
	}
	return l
}

// memArchives is an in-memory ArchiveWriter.
type memArchives struct {
	archives map[string][]Operation
	err      error // returned by WriteArchive when set
}

func (m *memArchives) WriteArchive(day date.Date, ops []Operation) error {
	if m.err != nil {
		return m.err
	}
	if m.archives == nil {
		m.archives = make(map[string][]Operation)
	}
	m.archives[day.String()] = append([]Operation(nil), ops...)
	return nil
}

func nullDec(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }
