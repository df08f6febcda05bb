package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/weiawesome/room-lobby/internal/kv"
	pkgconfig "github.com/weiawesome/room-lobby/pkg/config"
	"github.com/weiawesome/room-lobby/pkg/database"
	"github.com/weiawesome/room-lobby/pkg/log"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Redis    kv.RedisConfig
	Database DatabaseConfig
	S3       kv.S3Config
	Identity IdentityConfig
	Room     RoomConfig
	View     ViewConfig
	Log      log.Config
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
	MaxSessions     int `mapstructure:"max_sessions"`
}

type StorageConfig struct {
	Backend        string
	Key            string
	DiscardCorrupt bool `mapstructure:"discard_corrupt"`
	File           kv.FileConfig
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type IdentityConfig struct {
	User      string
	JWTSecret string `mapstructure:"jwt_secret"`
	TokenTTL  int    `mapstructure:"token_ttl"` // minutes, 0 = no expiry
	Issuer    string
}

type RoomConfig struct {
	IDStrategy string `mapstructure:"id_strategy"` // time, uuid
}

type ViewConfig struct {
	TimeFormat string `mapstructure:"time_format"`
	Timezone   string
}

// Load reads the config directory (or a single yaml file) plus environment.
func Load(path string) (*Config, error) {
	var (
		v   *viper.Viper
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		v, err = pkgconfig.LoadFile(path)
	default:
		if path == "" {
			path = "./config"
		}
		v, err = pkgconfig.Load(path, "config")
	}
	if err != nil {
		return nil, err
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.max_sessions", 1024)
	v.SetDefault("storage.backend", kv.BackendFile)
	v.SetDefault("storage.key", "chatRooms")
	v.SetDefault("storage.discard_corrupt", false)
	v.SetDefault("storage.file.base_path", "./data")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "lobby")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "room_lobby")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/lobby.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "silent")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "room-lobby")
	v.SetDefault("s3.prefix", "lobby")
	v.SetDefault("identity.user", "syed-asad-ul-zaman")
	v.SetDefault("identity.token_ttl", 24*60)
	v.SetDefault("identity.issuer", "room-lobby")
	v.SetDefault("room.id_strategy", "time")
	v.SetDefault("view.time_format", "Jan 2, 2006, 3:04:05 PM")
	v.SetDefault("view.timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "room-lobby")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.file.base_path", "STORAGE_PATH")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("identity.user", "LOBBY_USER")
	v.BindEnv("identity.jwt_secret", "JWT_SECRET")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ToDatabaseConfig converts to the shared database package config.
func (d DatabaseConfig) ToDatabaseConfig() *database.Config {
	return &database.Config{
		Driver:          d.Driver,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		DBName:          d.DBName,
		SSLMode:         d.SSLMode,
		FilePath:        d.FilePath,
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		LogLevel:        d.LogLevel,
	}
}

// KV returns the backend selection for kv.Open.
func (c *Config) KV() kv.Config {
	return kv.Config{
		Backend:  c.Storage.Backend,
		File:     c.Storage.File,
		Redis:    c.Redis,
		Database: c.Database.ToDatabaseConfig(),
		S3:       c.S3,
	}
}
