package kv

import (
	"context"
	"fmt"

	"github.com/weiawesome/room-lobby/pkg/database"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendGorm   = "gorm"
	BackendS3     = "s3"
)

// Config selects and configures one backend.
type Config struct {
	Backend  string
	File     FileConfig
	Redis    RedisConfig
	Database *database.Config
	S3       S3Config
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(cfg.File)
	case BackendRedis:
		return NewRedisStore(cfg.Redis)
	case BackendGorm:
		if cfg.Database == nil {
			return nil, fmt.Errorf("backend %q needs database config", cfg.Backend)
		}
		return NewGormStore(cfg.Database)
	case BackendS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
