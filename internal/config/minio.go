package config

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"locallink/internal/pkg/errors"
)

// NewMinIOClient connects to the asset store and makes sure the bucket exists
// with anonymous read access, since asset URLs are handed to the mobile client as-is.
func NewMinIOClient(cfg *Config, logger *slog.Logger) (*minio.Client, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s", cfg.MinIOBucket)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", cfg.MinIOBucket)
		}
		logger.Info("created asset bucket", slog.String("bucket", cfg.MinIOBucket))
	}

	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{"arn:aws:s3:::" + cfg.MinIOBucket + "/*"},
			},
		},
	}
	policyJSON, _ := json.Marshal(policy)
	if err := client.SetBucketPolicy(ctx, cfg.MinIOBucket, string(policyJSON)); err != nil {
		logger.Warn("failed to set bucket policy", slog.String("bucket", cfg.MinIOBucket), slog.Any("error", err))
	}

	return client, nil
}
