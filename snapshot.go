package codexi

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	// SnapshotsDir is the directory of snapshots within the data directory.
	SnapshotsDir    = "snapshots"
	snapshotPrefix  = "codexi_"
	snapshotExt     = ".snp"
	timestampFormat = "20060102_150405"
)

// Snapshot writes a copy of the ledger in <dir>/snapshots/codexi_<timestamp>.snp
// and returns its file name.
func Snapshot(dir string, ledger *Ledger, now time.Time) (string, error) {
	name := snapshotPrefix + now.Format(timestampFormat) + snapshotExt
	path := filepath.Join(dir, SnapshotsDir, name)
	if err := writeOperationsFile(path, ledger.operations); err != nil {
		return "", fmt.Errorf("could not take snapshot: %w", err)
	}
	zap.L().Info("snapshot taken", zap.String("path", path))
	return name, nil
}

// ListSnapshots returns the snapshot file names, oldest first.
func ListSnapshots(dir string) ([]string, error) {
	return listFiles(filepath.Join(dir, SnapshotsDir), snapshotPrefix, snapshotExt)
}

// RestoreSnapshot reads the ledger saved in a snapshot.
//
// It does not replace the ledger in the data directory, use Save for that.
func RestoreSnapshot(dir, name string) (*Ledger, error) {
	ops, err := readOperationsFile(filepath.Join(dir, SnapshotsDir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("could not restore snapshot: %w", err)
	}
	return newSortedLedger(ops), nil
}
