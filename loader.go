package codexi

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LedgerFile is the name of the ledger file within the data directory.
const LedgerFile = "codexi.jsonl"

// LedgerPath returns the path of the ledger file in the data directory.
func LedgerPath(dir string) string { return filepath.Join(dir, LedgerFile) }

// Load reads the ledger stored in the data directory.
// It returns an empty ledger if there is none yet.
func Load(dir string) (*Ledger, error) {
	path := LedgerPath(dir)
	ledger, err := loadLedgerFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Debug("no ledger file, starting with an empty ledger", zap.String("path", path))
		return NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	zap.L().Debug("ledger loaded", zap.String("path", path), zap.Int("operations", ledger.Len()))
	return ledger, nil
}

// loadLedgerFile opens and decodes a ledger from a given file path.
func loadLedgerFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return ledger, nil
}

// Save writes the whole ledger into the data directory.
//
// The ledger is written to a temporary file first, then renamed over the
// previous one.
func Save(dir string, ledger *Ledger) error {
	path := LedgerPath(dir)
	if err := writeOperationsFile(path, ledger.operations); err != nil {
		return err
	}
	zap.L().Debug("ledger saved", zap.String("path", path), zap.Int("operations", ledger.Len()))
	return nil
}

// writeOperationsFile atomically replaces the file at path with the JSONL operations.
func writeOperationsFile(path string, ops []Operation) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error opening %q for writing: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := EncodeOperations(tmp, ops); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace %q: %w", path, err)
	}
	return nil
}
