package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"movie-social/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

var _ MediaStore = (*S3Storage)(nil)

// S3Storage stores media in any S3-compatible bucket.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

type S3Option func(*S3Storage)

func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewS3Storage(ctx context.Context, cfg utils.StorageConfig, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	publicURL, err := s3PublicURL(cfg, region)
	if err != nil {
		return nil, err
	}

	storage := &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	storage.logger = storage.logger.With(zap.String("storage", "s3"), zap.String("bucket", cfg.Bucket))

	return storage, nil
}

// s3PublicURL derives the base URL objects are served from.
func s3PublicURL(cfg utils.StorageConfig, region string) (string, error) {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/"), nil
	}
	if cfg.Endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region), nil
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil || endpoint.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", cfg.Endpoint)
	}
	if cfg.UsePathStyle {
		return strings.TrimRight(endpoint.String(), "/") + "/" + cfg.Bucket, nil
	}
	return fmt.Sprintf("%s://%s.%s", endpoint.Scheme, cfg.Bucket, endpoint.Host), nil
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to upload object", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	s.logger.Debug("Object uploaded", zap.String("key", key), zap.Int64("size", size))
	return s.publicURL + "/" + key, nil
}
