// Package minioblob is the MinIO/S3 implementation of the BlobStore
// boundary: template documents, uploaded assets and rendered thumbnails.
package minioblob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

// MinioBlobStore implements repository.BlobStore against an S3-compatible
// endpoint.
type MinioBlobStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// Config holds the connection settings for the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is the externally reachable URL prefix for objects,
	// e.g. a CDN or the bucket's website endpoint. Trailing slash
	// optional.
	PublicBaseURL string
}

// NewMinioBlobStore connects to the object store and ensures the bucket
// exists.
func NewMinioBlobStore(ctx context.Context, cfg Config) (*MinioBlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: init client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: check bucket '%s': %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: create bucket '%s': %w", cfg.Bucket, err)
		}
	}
	return &MinioBlobStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// PutTemplate overwrites the serialized document for a template. Full
// overwrite, no version check: last writer wins.
func (s *MinioBlobStore) PutTemplate(ctx context.Context, templateID string, doc *domain.TemplateDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("minio: marshal template document '%s': %w", templateID, err)
	}
	key := repository.TemplateKey(templateID)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("minio: put template '%s': %w", key, err)
	}
	return nil
}

func (s *MinioBlobStore) GetTemplate(ctx context.Context, templateID string) (*domain.TemplateDocument, error) {
	key := repository.TemplateKey(templateID)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get template '%s': %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, repository.ErrBlobNotFound
		}
		return nil, fmt.Errorf("minio: read template '%s': %w", key, err)
	}
	var doc domain.TemplateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("minio: decode template '%s': %w", key, err)
	}
	return &doc, nil
}

func (s *MinioBlobStore) PutAsset(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio: put asset '%s': %w", key, err)
	}
	return nil
}

func (s *MinioBlobStore) GetAssetString(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("minio: get asset '%s': %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return "", repository.ErrBlobNotFound
		}
		return "", fmt.Errorf("minio: read asset '%s': %w", key, err)
	}
	return string(data), nil
}

func (s *MinioBlobStore) PutThumbnail(ctx context.Context, templateID, variant, format string, data []byte) error {
	key := repository.ThumbnailKey(templateID, variant, format)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/" + format})
	if err != nil {
		return fmt.Errorf("minio: put thumbnail '%s': %w", key, err)
	}
	return nil
}

func (s *MinioBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("minio: stat '%s': %w", key, err)
	}
	return true, nil
}

func (s *MinioBlobStore) ObjectURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key)
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
	}
	return false
}
