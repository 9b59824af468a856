package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
)

// DefaultMaxObjectBytes caps how much of an object Fetch will read.
const DefaultMaxObjectBytes = 10 << 20

// ErrObjectTooLarge is returned when an object exceeds the read limit.
var ErrObjectTooLarge = errors.New("object exceeds size limit")

// StorageService provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type StorageService interface {
	// Fetch downloads the bytes of the object at a gs:// URI.
	Fetch(ctx context.Context, uri string) ([]byte, error)

	// Upload writes r to bucket/object.
	Upload(ctx context.Context, bucket, object string, r io.Reader) error
}

// GCSStorageService is the concrete implementation of StorageService
// that interacts with Google Cloud Storage. It holds a shared client.
type GCSStorageService struct {
	client   *storage.Client
	maxBytes int64
}

// NewGCSStorageService creates a service using Application Default
// Credentials. maxBytes <= 0 selects DefaultMaxObjectBytes.
func NewGCSStorageService(ctx context.Context, maxBytes int64) (*GCSStorageService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGCSStorageService: create storage client: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxObjectBytes
	}
	return &GCSStorageService{client: client, maxBytes: maxBytes}, nil
}

// Close closes the storage client.
func (s *GCSStorageService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Fetch implements StorageService.
func (s *GCSStorageService) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	rc, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := readLimited(rc, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %s: %w", uri, err)
	}
	return data, nil
}

// Upload implements StorageService.
func (s *GCSStorageService) Upload(ctx context.Context, bucket, object string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("Upload: copy to GCS writer: %w", err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("Upload: finalize upload: %w", err)
	}
	return nil
}

// UploadFile uploads a local file and returns its gs:// URI.
func UploadFile(ctx context.Context, svc StorageService, bucket, object, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("UploadFile: open file %q: %w", filePath, err)
	}
	defer f.Close()

	if err := svc.Upload(ctx, bucket, object, f); err != nil {
		return "", fmt.Errorf("UploadFile: %w", err)
	}
	return URI(bucket, object), nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading bytes: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrObjectTooLarge
	}
	return data, nil
}
