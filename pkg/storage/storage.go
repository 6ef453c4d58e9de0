// Package storage persists uploaded media and hands back the URL it is served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"movie-social/pkg/utils"

	"go.uber.org/zap"
)

// MediaStore writes an object under key, replacing any existing object, and
// returns the URL clients use to fetch it.
type MediaStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

var ErrEmptyKey = errors.New("storage key is required")

// New builds the MediaStore selected by cfg.Driver.
func New(ctx context.Context, cfg utils.StorageConfig, log *zap.Logger) (MediaStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "s3":
		return NewS3Storage(ctx, cfg, WithLogger(log))
	case "", "local":
		return NewLocalStorage(nil, cfg.LocalDir, cfg.PublicURL, log), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", ErrEmptyKey
	}
	return key, nil
}
