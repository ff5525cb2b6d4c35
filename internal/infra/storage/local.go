// Package storage persists uploaded attachments on the local filesystem.
// Files are served back by the static /uploads route.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmarins/onboarding-api/internal/infra/resilience"

	"go.uber.org/zap"
)

// LocalStore writes attachments under a single directory and returns the
// public reference ("/uploads/<name>") for each stored file. Concurrent
// writes are bounded by a bulkhead.
type LocalStore struct {
	dir      string
	bulkhead *resilience.Bulkhead
	logger   *zap.Logger
}

// NewLocalStore creates the uploads directory if needed.
func NewLocalStore(dir string, maxConcurrency int, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:      dir,
		bulkhead: resilience.NewBulkhead(maxConcurrency),
		logger:   logger,
	}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save streams one multipart file to disk. The stored name is the upload
// timestamp in millis plus the sanitized client file name, so repeated
// uploads of the same file never collide.
func (s *LocalStore) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if err := s.bulkhead.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.bulkhead.Release()

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}

	s.logger.Debug("attachment stored",
		zap.String("file", name),
		zap.Int64("bytes", written),
	)

	return "/uploads/" + name, nil
}

// sanitizeName strips any path components and characters that would be
// unsafe in a served file name.
func sanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "attachment"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
