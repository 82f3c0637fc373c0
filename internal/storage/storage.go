package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the S3-compatible operations the dashboard needs:
// fetching the source workbook and archiving CSV exports.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

const (
	ProviderSevalla = "sevalla"
	ProviderMinio   = "minio"
)

// Config holds the connection info shared by every S3-compatible backend.
type Config struct {
	Provider  string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ConfigFrom copies the bucket settings out of the application config.
func ConfigFrom(cfg config.StorageConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	}
}

// New builds the backend named by cfg.Provider. An empty provider means sevalla.
func New(cfg Config) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderSevalla, "s3":
		return NewSevallaClient(cfg)
	case ProviderMinio:
		return NewMinioClient(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

func validate(name string, cfg Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("%s endpoint must be provided", name)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return fmt.Errorf("%s credentials must be provided", name)
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("%s bucket must be provided", name)
	}
	return nil
}

func regionOrDefault(region string) string {
	region = strings.TrimSpace(region)
	if region == "" {
		return "us-east-1"
	}
	return region
}
