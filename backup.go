package codexi

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BackupPath resolves the zip file of a backup.
//
// A target ending in ".zip" is used as is. Any other target is a directory
// receiving codexi_backup_<timestamp>.zip. An empty target is the user home directory.
func BackupPath(target string, now time.Time) (string, error) {
	if strings.EqualFold(filepath.Ext(target), ".zip") {
		return target, nil
	}
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not find a default backup directory: %w", err)
		}
		target = home
	}
	return filepath.Join(target, "codexi_backup_"+now.Format(timestampFormat)+".zip"), nil
}

// Backup zips the data directory into the target file. Snapshots are not included.
//
// Paths in the zip are relative to the data directory.
func Backup(dir, target string) (err error) {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("could not backup data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("could not backup %q: not a directory", dir)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", target, err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("could not create backup %q: %w", target, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("could not write backup %q: %w", target, cerr)
		}
	}()

	zw := zip.NewWriter(f)
	absTarget, _ := filepath.Abs(target)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if rel == SnapshotsDir {
				return filepath.SkipDir
			}
			_, err := zw.Create(filepath.ToSlash(rel) + "/")
			return err
		}
		if strings.HasSuffix(rel, ".tmp") {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absTarget {
			return nil // the backup itself lives in the data directory
		}
		return addZipFile(zw, path, filepath.ToSlash(rel))
	})
	if err != nil {
		return fmt.Errorf("could not backup %q: %w", dir, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not write backup %q: %w", target, err)
	}
	zap.L().Info("backup done", zap.String("path", target))
	return nil
}

func addZipFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

// Restore extracts a backup over the data directory. Existing files are overwritten.
func Restore(dir, zipPath string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("could not open backup %q: %w", zipPath, err)
	}
	defer zr.Close()

	zap.L().Warn("restoring backup, existing files will be overwritten", zap.String("dir", dir), zap.String("backup", zipPath))
	for _, zf := range zr.File {
		name := filepath.FromSlash(zf.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("could not restore %q: entry %q escapes the data directory", zipPath, zf.Name)
		}
		out := filepath.Join(dir, name)
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(out, 0755); err != nil {
				return fmt.Errorf("could not restore %q: %w", zf.Name, err)
			}
			continue
		}
		if err := extractZipFile(zf, out); err != nil {
			return fmt.Errorf("could not restore %q: %w", zf.Name, err)
		}
		zap.L().Debug("restored", zap.String("file", zf.Name))
	}
	zap.L().Info("restore done", zap.String("dir", dir))
	return nil
}

func extractZipFile(zf *zip.File, out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	src, err := zf.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
