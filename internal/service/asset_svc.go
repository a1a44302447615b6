package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// Asset is a stored remote object: the public URL clients load and the
// object key used for later deletion.
type Asset struct {
	URL string
	Key string
}

// AssetService fronts the object store holding all media: video files,
// thumbnails, avatars, covers and tweet images.
type AssetService struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

type AssetConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

func NewAssetService(ctx context.Context, cfg AssetConfig) (*AssetService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("created media bucket")
	}

	return &AssetService{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *AssetService) Bucket() string { return s.bucket }

// Upload streams an object under folder/ with a generated key and returns
// its public URL. The original filename only contributes its extension.
func (s *AssetService) Upload(ctx context.Context, r io.Reader, size int64, folder, filename, contentType string) (*Asset, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), strings.ToLower(path.Ext(filename)))

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	return &Asset{
		URL: s.publicURL + "/" + key,
		Key: key,
	}, nil
}

// Delete removes an object. Missing objects are not an error: the
// cleanup queue may retry a delete that already succeeded.
func (s *AssetService) Delete(ctx context.Context, bucket, key string) error {
	if key == "" {
		return nil
	}
	if bucket == "" {
		bucket = s.bucket
	}
	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
