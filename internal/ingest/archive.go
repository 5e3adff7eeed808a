package ingest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/medbridge/claimflow/internal/common"
)

// LatestPair returns the newest JSON and PDF in the upload directory by
// modification time. Either path may be empty when no file of that type is
// present.
func LatestPair(uploadDir string) (jsonPath, pdfPath string, err error) {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return "", "", common.WrapError(err, "read upload dir")
	}

	var jsonTime, pdfTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(uploadDir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json":
			if info.ModTime().After(jsonTime) {
				jsonTime, jsonPath = info.ModTime(), path
			}
		case ".pdf":
			if info.ModTime().After(pdfTime) {
				pdfTime, pdfPath = info.ModTime(), path
			}
		}
	}
	return jsonPath, pdfPath, nil
}

// Archive moves processed files into archiveDir/YYYY-MM-DD/ so the next
// claiming pass will not pick them up again. Failures on individual files
// are logged and skipped; the worker must not die on a full disk.
func Archive(paths []string, archiveDir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	dateDir := filepath.Join(archiveDir, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(dateDir, 0o755); err != nil {
		return common.WrapError(err, "create archive dir")
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		target := filepath.Join(dateDir, filepath.Base(p))
		if err := moveFile(p, target); err != nil {
			logger.Error("ingest.archive.failed", "path", p, "error", err)
			continue
		}
		logger.Info("ingest.archive.moved", "path", p, "target", target)
	}
	return nil
}

// moveFile renames, falling back to copy-and-remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
