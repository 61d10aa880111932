// Package s3 provides a storage.Backend backed by an S3-compatible object store.
// Object keys mirror the filesystem layout: [<prefix>/]<authorID>/<postID>/<file name>.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/config"
	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/storage"
)

const scheme = "s3://"

// Client is the subset of the S3 API the backend needs.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Backend stores blobs as objects in a single bucket.
type Backend struct {
	client Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// New creates an S3 backend from configuration. Static credentials are used
// when an access key is configured; otherwise the default AWS chain applies.
func New(ctx context.Context, cfg config.S3StorageConfig, logger zerolog.Logger) (*Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 backend: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Msg("using S3 image storage")

	return NewWithClient(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// NewWithClient creates an S3 backend around an existing client.
func NewWithClient(client Client, bucket, prefix string, logger zerolog.Logger) *Backend {
	return &Backend{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger.With().Str("storage", "s3").Str("bucket", bucket).Logger(),
	}
}

// objectKey returns the full object key for a storage key.
func (b *Backend) objectKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return path.Join(b.prefix, key)
}

// GetPath returns the s3://bucket/key location for key.
func (b *Backend) GetPath(key string) string {
	return scheme + b.bucket + "/" + b.objectKey(key)
}

// Store uploads data as a single object.
func (b *Backend) Store(ctx context.Context, key string, data []byte) (string, error) {
	objectKey := b.objectKey(key)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		b.logger.Error().Err(err).Str("key", objectKey).Msg("failed to upload image object")
		return "", domain.NewDomainError(domain.ErrImageFileWrite, err.Error(), objectKey)
	}

	b.logger.Debug().Str("key", objectKey).Int("size", len(data)).Msg("image object stored")
	return b.GetPath(key), nil
}

// Retrieve downloads the object addressed by an s3://bucket/key path.
func (b *Backend) Retrieve(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := parsePath(location)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrImageFileUnreadable, err.Error(), location)
	}

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewDomainError(domain.ErrImageFileMissing, "no object at path", location)
		}
		b.logger.Error().Err(err).Str("key", key).Msg("failed to download image object")
		return nil, domain.NewDomainError(domain.ErrImageFileUnreadable, err.Error(), location)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrImageFileUnreadable, err.Error(), location)
	}
	return data, nil
}

// parsePath splits s3://bucket/key into its parts.
func parsePath(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %q", location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed s3 path: %q", location)
	}
	return bucket, key, nil
}

// isNotFound reports whether err means the object does not exist.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}

// Ensure Backend implements storage.Backend.
var _ storage.Backend = (*Backend)(nil)
