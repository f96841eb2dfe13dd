package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"locallink/internal/config"
	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

var (
	ErrUnsupportedFormat = errors.New("only jpg, jpeg and png images are allowed")
	ErrFileTooLarge      = errors.New("file is too large")
	ErrNoFiles           = errors.New("no files uploaded")
	ErrAssetNotFound     = errors.New("image not found")
	ErrStoreUnavailable  = errors.New("asset store is not configured")
)

var allowedFormats = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Upload is a single file taken from a multipart request.
type Upload struct {
	FileName string
	Size     int64
	Reader   io.Reader
}

type Store interface {
	Upload(ctx context.Context, folder domain.AssetFolder, file Upload) (*domain.Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// ObjectAPI is the part of the MinIO client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type store struct {
	client ObjectAPI
	cfg    *config.Config
}

// NewStore returns a Store backed by MinIO. A nil client yields a store that
// rejects every call with ErrStoreUnavailable.
func NewStore(client *minio.Client, cfg *config.Config) Store {
	if client == nil {
		return &store{cfg: cfg}
	}
	return &store{client: client, cfg: cfg}
}

func NewStoreWithClient(client ObjectAPI, cfg *config.Config) Store {
	return &store{client: client, cfg: cfg}
}

func (s *store) Upload(ctx context.Context, folder domain.AssetFolder, file Upload) (*domain.Asset, error) {
	if s.client == nil {
		return nil, ErrStoreUnavailable
	}

	ext := strings.ToLower(path.Ext(file.FileName))
	contentType, ok := allowedFormats[ext]
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	if s.cfg.MaxUploadSize > 0 && file.Size > s.cfg.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	publicID := fmt.Sprintf("%s/%s%s", folder, uuid.New(), ext)

	_, err := s.client.PutObject(ctx, s.cfg.MinIOBucket, publicID, file.Reader, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "upload to minio")
	}

	return &domain.Asset{
		PublicID: publicID,
		URL:      s.publicURL(publicID),
		AltText:  file.FileName,
	}, nil
}

func (s *store) Destroy(ctx context.Context, publicID string) error {
	if s.client == nil {
		return ErrStoreUnavailable
	}
	if err := s.client.RemoveObject(ctx, s.cfg.MinIOBucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "remove %s from minio", publicID)
	}
	return nil
}

func (s *store) publicURL(objectName string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	escaped := (&url.URL{Path: objectName}).EscapedPath()
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, escaped)
}
