// Package archive zips a run's output directory into the processed
// directory and then empties the output directory.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/chronoform/internal/logger"
)

// TimestampLayout is the suffix format of archive names.
const TimestampLayout = "20060102_150405"

// Archiver moves run outputs into timestamped zip files.
type Archiver struct {
	SourceDir string
	TargetDir string

	now func() time.Time
}

// New creates an Archiver.
func New(sourceDir, targetDir string) *Archiver {
	return &Archiver{SourceDir: sourceDir, TargetDir: targetDir, now: time.Now}
}

// Name returns the archive file name for bookID.
func (a *Archiver) Name(bookID string) string {
	if bookID == "" {
		bookID = "unknown"
	}
	return fmt.Sprintf("%s_archived_files_%s.zip", bookID, a.now().Format(TimestampLayout))
}

// Archive zips every file below SourceDir and then deletes SourceDir's
// contents. It returns the zip path, or "" when SourceDir does not exist.
func (a *Archiver) Archive(ctx context.Context, bookID string) (string, error) {
	log := logger.FromContext(ctx)

	if _, err := os.Stat(a.SourceDir); errors.Is(err, fs.ErrNotExist) {
		log.Warn("Folder not found", "dir", a.SourceDir)
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("checking %s: %w", a.SourceDir, err)
	}

	if err := os.MkdirAll(a.TargetDir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", a.TargetDir, err)
	}

	zipPath := filepath.Join(a.TargetDir, a.Name(bookID))
	log.Info("Zipping outputs", "source", a.SourceDir, "archive", filepath.Base(zipPath))

	if err := a.zipDir(ctx, zipPath); err != nil {
		_ = os.Remove(zipPath)
		return "", err
	}

	log.Info("Deleting archived outputs", "dir", a.SourceDir)
	if err := clearDir(a.SourceDir); err != nil {
		return zipPath, err
	}
	return zipPath, nil
}

func (a *Archiver) zipDir(ctx context.Context, zipPath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", zipPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	walkErr := filepath.WalkDir(a.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(a.SourceDir, path)
		if err != nil {
			return err
		}
		return addFile(zw, path, filepath.ToSlash(rel))
	})
	if walkErr != nil {
		zw.Close()
		return fmt.Errorf("zipping %s: %w", a.SourceDir, walkErr)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return f.Close()
}

func addFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

// clearDir removes everything inside dir but keeps dir itself.
func clearDir(dir string) error {
	items, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, item := range items {
		if err := os.RemoveAll(filepath.Join(dir, item.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", item.Name(), err)
		}
	}
	return nil
}
