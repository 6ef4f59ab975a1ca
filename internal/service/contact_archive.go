package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
)

var (
	ErrArchiveDisabled      = errors.New("contact archive is not configured")
	ErrBucketCreationFailed = errors.New("failed to create archive bucket")
	ErrUploadFailed         = errors.New("failed to upload archive")
)

const archivePathPrefix = "contacts"

type ObjectUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// MinioUploader writes archive objects to an S3-compatible bucket. The
// bucket is created on first upload, not at startup.
type MinioUploader struct {
	client   *minio.Client
	bucket   string
	initOnce sync.Once
	initErr  error
}

func NewMinioUploader(cfg *config.Config) (*MinioUploader, error) {
	if !cfg.ArchiveEnabled() {
		return nil, ErrArchiveDisabled
	}
	client, err := minio.New(cfg.ArchiveEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, ""),
		Secure: cfg.ArchiveUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioUploader{client: client, bucket: cfg.ArchiveBucket}, nil
}

func (u *MinioUploader) ensureBucket(ctx context.Context) error {
	u.initOnce.Do(func() {
		exists, err := u.client.BucketExists(ctx, u.bucket)
		if err != nil {
			u.initErr = fmt.Errorf("%w: check bucket: %v", ErrBucketCreationFailed, err)
			return
		}
		if !exists {
			if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
				u.initErr = fmt.Errorf("%w: %v", ErrBucketCreationFailed, err)
			}
		}
	})
	return u.initErr
}

func (u *MinioUploader) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := u.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := u.client.PutObject(ctx, u.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"Exported-At": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return nil
}

type ArchiveResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Bytes int64  `json:"bytes"`
}

type ContactArchiver struct {
	contacts repository.ContactRepository
	uploader ObjectUploader
	now      func() time.Time
}

func NewContactArchiver(contacts repository.ContactRepository, uploader ObjectUploader) *ContactArchiver {
	return &ContactArchiver{contacts: contacts, uploader: uploader, now: time.Now}
}

// Export writes every contact created since the given time as one JSON
// object per line.
func (a *ContactArchiver) Export(ctx context.Context, since time.Time) (*ArchiveResult, error) {
	items, err := a.contacts.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range items {
		if err := enc.Encode(archiveRecord(&items[i])); err != nil {
			return nil, fmt.Errorf("encode contact %s: %w", items[i].ID, err)
		}
	}
	key := fmt.Sprintf("%s/%s/%s.jsonl", archivePathPrefix, a.now().UTC().Format("2006-01-02"), uuid.NewString())
	size := int64(buf.Len())
	if err := a.uploader.Upload(ctx, key, &buf, size, "application/x-ndjson"); err != nil {
		return nil, err
	}
	return &ArchiveResult{Key: key, Count: len(items), Bytes: size}, nil
}

type archivedContact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func archiveRecord(c *domain.Contact) archivedContact {
	return archivedContact{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.UTC().Format(ISOMillis),
		UpdatedAt: c.UpdatedAt.UTC().Format(ISOMillis),
	}
}
