// Package storage persists chore and profile photos in S3-compatible object
// storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrDisabled is returned when photo storage is not configured.
var ErrDisabled = errors.New("photo storage is not configured")

// maxPhotoSize bounds a single upload at 10 MiB.
const maxPhotoSize = 10 << 20

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// PublicBaseURL is the URL prefix served to clients. Defaults to
	// endpoint/bucket when empty.
	PublicBaseURL string
}

// Store uploads photos and returns publicly addressable URLs.
type Store struct {
	cfg    Config
	client s3Client
}

// NewStore creates a photo store. When the bucket or credentials are missing
// the store is disabled and every operation returns ErrDisabled.
func NewStore(cfg Config) *Store {
	s := &Store{cfg: cfg}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		s.client = newS3Client(cfg)
	}
	return s
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether uploads are configured.
func (s *Store) Enabled() bool {
	return s.client != nil
}

// UploadPhoto stores the photo under a per-owner key and returns its URL.
// Scope groups the object ("chores" or "profiles") and ownerID namespaces it.
func (s *Store) UploadPhoto(ctx context.Context, scope, ownerID string, r io.Reader, contentType string) (string, error) {
	if s.client == nil {
		return "", ErrDisabled
	}

	ext := extensionFor(contentType)
	if ext == "" {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) > maxPhotoSize {
		return "", fmt.Errorf("photo exceeds %d bytes", maxPhotoSize)
	}

	key := path.Join(scope, ownerID, fmt.Sprintf("%d-%s%s", time.Now().UTC().Unix(), uuid.NewString(), ext))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	return s.urlFor(key), nil
}

// DeletePhoto removes an object previously returned by UploadPhoto. URLs from
// other stores are ignored.
func (s *Store) DeletePhoto(ctx context.Context, photoURL string) error {
	if s.client == nil {
		return ErrDisabled
	}

	key, ok := strings.CutPrefix(photoURL, s.baseURL()+"/")
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func (s *Store) baseURL() string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(s.cfg.PublicBaseURL, "/")
	}
	return strings.TrimSuffix(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket
}

func (s *Store) urlFor(key string) string {
	return s.baseURL() + "/" + key
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ""
	}
}
