package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var _ MediaStore = (*LocalStorage)(nil)

// LocalURLPrefix is the route local media is served under.
const LocalURLPrefix = "/uploads/"

// LocalStorage keeps media on a filesystem, the OS one unless a test supplies another.
type LocalStorage struct {
	fs        afero.Fs
	dir       string
	publicURL string
	logger    *zap.Logger
}

func NewLocalStorage(fs afero.Fs, dir, publicURL string, logger *zap.Logger) *LocalStorage {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "uploads"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalStorage{
		fs:        fs,
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger.With(zap.String("storage", "local")),
	}
}

func (s *LocalStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := s.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	f, err := s.fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", key, err)
	}
	written, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.logger.Error("Failed to write object", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("write %s: %w", key, err)
	}

	s.logger.Debug("Object stored",
		zap.String("key", key),
		zap.Int64("size", written),
		zap.String("content_type", contentType),
	)

	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	return path.Join(LocalURLPrefix, key), nil
}

// Handler serves stored media; mount it under LocalURLPrefix.
func (s *LocalStorage) Handler() http.Handler {
	return http.StripPrefix(LocalURLPrefix, http.FileServer(afero.NewHttpFs(s.fs).Dir(s.dir)))
}
