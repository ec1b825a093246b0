package storage

import (
	"context"
	"fmt"
	"strings"

	"productapp/internal/config"
)

const (
	// TypeLocal stores files on the local filesystem.
	TypeLocal = "local"
	// TypeS3 stores files in Amazon S3 or a compatible backend.
	TypeS3 = "s3"
	// TypeOSS stores files in Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS stores files in Tencent COS.
	TypeCOS = "cos"
	// TypeR2 stores files in Cloudflare R2.
	TypeR2 = "r2"
)

// SaveOptions controls how a backend persists a file. Category organises
// objects on disk or under the bucket prefix; Extension hints the preferred
// file extension (without the leading dot); BaseName names the object and is
// generated when empty.
type SaveOptions struct {
	Category  string
	Extension string
	BaseName  string
}

// Storage persists binary payloads and returns a backend-specific identifier,
// e.g. a relative path for local storage or an object key for buckets.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends exposing a local directory
// that can be served directly over HTTP.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the configured storage backend.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
