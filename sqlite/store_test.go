package sqlite

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/date"
	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "archives.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newLedger(t *testing.T) *codexi.Ledger {
	t.Helper()
	l := codexi.NewLedger()
	if err := l.Initialize(decimal.RequireFromString("1000.00"), "2024-07-01"); err != nil {
		t.Fatal(err)
	}
	if err := l.Append(codexi.Regular(codexi.Transaction), codexi.Credit, "2024-07-05", decimal.RequireFromString("50.00"), "x"); err != nil {
		t.Fatal(err)
	}
	if err := l.Append(codexi.Regular(codexi.Fee), codexi.Debit, "2024-07-10", decimal.RequireFromString("30.125"), "y"); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestClosePeriodWithStore(t *testing.T) {
	s := newTestStore(t)
	l := newLedger(t)
	archived := l.Operations()

	if err := l.ClosePeriod(s, "2024-07-31", "july"); err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}
	ids, err := s.ListArchives()
	if err != nil {
		t.Fatalf("ListArchives: %v", err)
	}
	if !slices.Equal(ids, []string{"2024-07-31"}) {
		t.Fatalf("ListArchives = %v, want [2024-07-31]", ids)
	}
	got, err := s.ReadArchive("2024-07-31")
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if !slices.EqualFunc(got, archived, codexi.Operation.Equal) {
		t.Errorf("ReadArchive = %v, want %v", got, archived)
	}
}

func TestWriteArchiveReplaces(t *testing.T) {
	s := newTestStore(t)
	ops := newLedger(t).Operations()
	day := date.MustParse("2024-07-31")

	if err := s.WriteArchive(day, ops); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	if err := s.WriteArchive(day, ops[:1]); err != nil {
		t.Fatalf("WriteArchive (again): %v", err)
	}
	if err := s.WriteArchive(date.MustParse("2024-06-30"), ops[1:]); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	got, err := s.ReadArchive("2024-07-31")
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(ops[0]) {
		t.Errorf("ReadArchive after replace = %v, want %v", got, ops[:1])
	}
	ids, err := s.ListArchives()
	if err != nil {
		t.Fatalf("ListArchives: %v", err)
	}
	if want := []string{"2024-06-30", "2024-07-31"}; !slices.Equal(ids, want) {
		t.Errorf("ListArchives = %v, want %v", ids, want)
	}
}

func TestReadArchiveMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ReadArchive("1999-12-31"); err == nil {
		t.Errorf("ReadArchive of a missing archive expected an error")
	}
}

func TestReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archives.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	ops := newLedger(t).Operations()
	if err := s.WriteArchive(date.MustParse("2024-07-31"), ops); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("New (reopen): %v", err)
	}
	defer s.Close()
	got, err := s.ReadArchive("2024-07-31")
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if len(got) != len(ops) {
		t.Errorf("ReadArchive after reopen has %d operations, want %d", len(got), len(ops))
	}
}
