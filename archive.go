package codexi

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/codexi/date"
	"go.uber.org/zap"
)

// ArchiveWriter receives the operations removed from the ledger by a period closing.
type ArchiveWriter interface {
	// WriteArchive stores the operations archived by the closing of day.
	// Writing the same day twice replaces the previous archive.
	WriteArchive(day date.Date, ops []Operation) error
}

// ArchiveStore stores, lists and reads archives.
type ArchiveStore interface {
	ArchiveWriter
	// ListArchives returns the archive identifiers in ascending order.
	ListArchives() ([]string, error)
	// ReadArchive returns the operations of an archive.
	ReadArchive(id string) ([]Operation, error)
}

const (
	// ArchivesDir is the directory of archives within the data directory.
	ArchivesDir   = "archives"
	archivePrefix = "codexi_"
	archiveExt    = ".cld"
)

// Archives stores each archive as a JSONL file <dir>/archives/codexi_<date>.cld.
type Archives struct {
	dir string
}

var _ ArchiveStore = (*Archives)(nil)

// NewArchives returns the file archive store of the data directory.
func NewArchives(dir string) *Archives {
	return &Archives{dir: filepath.Join(dir, ArchivesDir)}
}

// ArchiveName returns the file name of the archive of the closing of day.
func ArchiveName(day date.Date) string {
	return archivePrefix + day.String() + archiveExt
}

func (a *Archives) WriteArchive(day date.Date, ops []Operation) error {
	path := filepath.Join(a.dir, ArchiveName(day))
	if err := writeOperationsFile(path, ops); err != nil {
		return err
	}
	zap.L().Info("archive written", zap.String("path", path), zap.Int("operations", len(ops)))
	return nil
}

// ListArchives returns the archive file names, sorted.
func (a *Archives) ListArchives() ([]string, error) {
	return listFiles(a.dir, archivePrefix, archiveExt)
}

// ReadArchive reads an archive by file name. The closing date alone is also accepted.
func (a *Archives) ReadArchive(id string) ([]Operation, error) {
	name := filepath.Base(id)
	if !strings.HasSuffix(name, archiveExt) {
		name = archivePrefix + name + archiveExt
	}
	return readOperationsFile(filepath.Join(a.dir, name))
}

// listFiles returns the sorted names of the files in dir with the given prefix
// and extension. A missing directory has no files.
func listFiles(dir, prefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not list %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ext) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func readOperationsFile(path string) ([]Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()
	ops, err := DecodeOperations(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", path, err)
	}
	return ops, nil
}
