package gcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type BucketService interface {
	UploadFile(ctx context.Context, key string, file io.Reader) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	SignedURL(key string, ttl time.Duration) (string, error)
	GetPublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	bucketName := os.Getenv("DOCUMENTS_GCS_BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var DOCUMENTS_GCS_BUCKET_NAME")
	}

	ctx := context.Background()
	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucketName,
	}, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".txt"):
		return "text/plain"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return ""
	}
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	o := bs.storageClient.Bucket(bs.bucketName).Object(key)
	if err := o.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.bucketName, err)
	}
	return nil
}

func (bs *bucketService) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := bs.storageClient.Bucket(bs.bucketName).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (bs *bucketService) SignedURL(key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	url, err := bs.storageClient.Bucket(bs.bucketName).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %q: %w", key, err)
	}
	return url, nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}

// IMPORTANT FIX:
// Do NOT `defer cancel()` before returning the reader.
// If you do, the context is canceled immediately and callers read 0 bytes.
// We attach the cancel to the reader's Close().
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (bs *bucketService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	// Create a context that stays alive for the life of the reader.
	// Cancel only after the reader is closed.
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)

	r, err := bs.storageClient.Bucket(bs.bucketName).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}

	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}
