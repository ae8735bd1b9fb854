// Package blob stores user-uploaded avatar images in S3-compatible
// object storage. When no object store is configured, accounts fall
// back to generated avatar URLs and uploads are rejected.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// Config carries object store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Service wraps the object store client for avatar uploads.
type Service struct {
	client *minio.Client
	bucket string
	log    *logrus.Logger
}

// NewService connects to the object store and ensures the avatar
// bucket exists.
func NewService(ctx context.Context, cfg Config, log *logrus.Logger) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check avatar bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create avatar bucket: %w", err)
		}
	}

	return &Service{client: client, bucket: cfg.Bucket, log: log}, nil
}

// PutAvatar stores the avatar image for a user and returns a presigned
// URL for it. Uploading again overwrites the previous image.
func (s *Service) PutAvatar(ctx context.Context, userID int64, r io.Reader, size int64, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported avatar content type %q", contentType)
	}

	key := avatarKey(userID)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	return s.AvatarURL(ctx, userID)
}

// AvatarURL returns a presigned GET URL for the user's stored avatar.
func (s *Service) AvatarURL(ctx context.Context, userID int64) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, avatarKey(userID), 7*24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("presign avatar: %w", err)
	}
	return u.String(), nil
}

// DeleteAvatar removes the stored avatar for a user. Missing objects
// are not an error.
func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	err := s.client.RemoveObject(ctx, s.bucket, avatarKey(userID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete avatar: %w", err)
	}
	return nil
}

func avatarKey(userID int64) string {
	return fmt.Sprintf("avatars/%d", userID)
}
