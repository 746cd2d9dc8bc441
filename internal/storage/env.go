package storage

import (
	"context"
	"os"
)

// NewFromEnv selects the storage backend from STORAGE_BACKEND
// ("s3" or anything else for local disk).
func NewFromEnv(ctx context.Context) (Interface, error) {
	if os.Getenv("STORAGE_BACKEND") == "s3" {
		return NewS3Storage(ctx, S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          os.Getenv("S3_REGION"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			ForcePathStyle:  os.Getenv("S3_FORCE_PATH_STYLE") == "true",
		})
	}
	return NewLocalStorage(os.Getenv("STORAGE_ROOT"))
}
