// Package sqlite stores the archives of period closings in a SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/date"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// Store keeps every archive in a single table, keyed by closing date.
type Store struct {
	db *sql.DB
}

// Compile-time check that *Store implements codexi.ArchiveStore.
var _ codexi.ArchiveStore = (*Store)(nil)

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS archives (
		close_date  TEXT NOT NULL,
		position    INTEGER NOT NULL,
		date        TEXT NOT NULL,
		kind        TEXT NOT NULL,
		flow        TEXT NOT NULL,
		amount      TEXT NOT NULL,
		description TEXT NOT NULL,
		PRIMARY KEY (close_date, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WriteArchive replaces the archive of the closing of day with ops.
func (s *Store) WriteArchive(day date.Date, ops []codexi.Operation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	id := day.String()
	if _, err := tx.Exec(`DELETE FROM archives WHERE close_date = ?`, id); err != nil {
		return fmt.Errorf("clear archive %s: %w", id, err)
	}
	for i, op := range ops {
		kind, _ := op.Kind().MarshalText()
		flow, _ := op.Flow().MarshalText()
		_, err := tx.Exec(
			`INSERT INTO archives (close_date, position, date, kind, flow, amount, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, op.When().String(), string(kind), string(flow), op.Amount().String(), op.Description(),
		)
		if err != nil {
			return fmt.Errorf("insert archived operation #%d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive %s: %w", id, err)
	}
	zap.L().Info("archive written", zap.String("close_date", id), zap.Int("operations", len(ops)))
	return nil
}

// ListArchives returns the closing dates that have an archive, in ascending order.
func (s *Store) ListArchives() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT close_date FROM archives ORDER BY close_date`)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReadArchive returns the operations archived by the closing dated id (YYYY-MM-DD).
func (s *Store) ReadArchive(id string) ([]codexi.Operation, error) {
	rows, err := s.db.Query(
		`SELECT date, kind, flow, amount, description
		 FROM archives WHERE close_date = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", id, err)
	}
	defer rows.Close()

	var ops []codexi.Operation
	for rows.Next() {
		var day, kindName, flowName, amountText, description string
		if err := rows.Scan(&day, &kindName, &flowName, &amountText, &description); err != nil {
			return nil, err
		}
		op, err := scanOperation(day, kindName, flowName, amountText, description)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", id, err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("archive %s not found", id)
	}
	return ops, nil
}

func scanOperation(day, kindName, flowName, amountText, description string) (codexi.Operation, error) {
	kind, err := codexi.ParseKind(kindName)
	if err != nil {
		return codexi.Operation{}, err
	}
	flow, err := codexi.ParseFlow(flowName)
	if err != nil {
		return codexi.Operation{}, err
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return codexi.Operation{}, fmt.Errorf("%w %q: %w", codexi.ErrInvalidAmount, amountText, err)
	}
	return codexi.NewOperation(kind, flow, day, amount, description)
}
