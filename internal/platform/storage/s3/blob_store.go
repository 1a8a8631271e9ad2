/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/electroprime/storefront-core/internal/core/domain"
	"github.com/electroprime/storefront-core/internal/core/ports"
)

// MaxImageBytes is the upload size cap (5 MiB).
const MaxImageBytes = 5 << 20

const uploadPrefix = "uploads"

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

type BlobStore struct {
	client    *s3.Client
	bucket    string
	endpoint  string
	publicURL string
}

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

var _ ports.BlobStore = (*BlobStore)(nil)

func NewBlobStore(ctx context.Context, cfg Config) (*BlobStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if cfg.Endpoint != "" {
					return aws.Endpoint{
						PartitionID:   "aws",
						URL:           cfg.Endpoint,
						SigningRegion: cfg.Region,
					}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &BlobStore{
		client:    client,
		bucket:    cfg.Bucket,
		endpoint:  cfg.Endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Store validates the image, uploads it under a timestamped key and returns
// the public URL. Each failure mode is a distinct, user-facing error: a
// rejected upload must never silently produce a record with no image.
func (b *BlobStore) Store(ctx context.Context, filename string, data []byte) (string, error) {
	contentType, err := validateImage(filename, len(data))
	if err != nil {
		return "", err
	}

	key := objectKey(filename, time.Now())
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return b.urlFor(key), nil
}

func (b *BlobStore) urlFor(key string) string {
	if b.publicURL != "" {
		return b.publicURL + "/" + key
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(b.endpoint, "/"), b.bucket, key)
}

func validateImage(filename string, size int) (string, error) {
	if size > MaxImageBytes {
		return "", domain.ErrImageTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedImageType, ext)
	}
	return contentType, nil
}

// objectKey builds "uploads/<unix-ms>-<sanitized stem><ext>", mirroring the
// key shape already present in production storage.
func objectKey(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = sanitizeStem(stem)
	if stem == "" {
		stem = "image"
	}
	return fmt.Sprintf("%s/%d-%s%s", uploadPrefix, now.UnixMilli(), stem, ext)
}

func sanitizeStem(stem string) string {
	var sb strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
