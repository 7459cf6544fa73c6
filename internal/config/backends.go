package config

import (
	"path/filepath"
	"time"

	"github.com/Veraticus/plata/internal/pending"
	"github.com/Veraticus/plata/internal/storage"
	"github.com/spf13/viper"
)

// LoadStorageConfig reads database.* keys. SQLite under DataDir is the default.
func LoadStorageConfig(v *viper.Viper) storage.Config {
	cfg := storage.Config{
		Driver: firstNonEmpty(v.GetString("database.driver"), "sqlite"),
		Path:   ExpandPath(v.GetString("database.path")),
		DSN:    firstNonEmpty(v.GetString("database.dsn"), v.GetString("database_url")),
	}
	if cfg.Path == "" {
		cfg.Path = filepath.Join(DataDir(), "plata.db")
	}
	return cfg
}

// LoadPendingConfig reads pending.* keys. The in-process store is the default.
func LoadPendingConfig(v *viper.Viper) pending.Config {
	cfg := pending.Config{
		Backend:       firstNonEmpty(v.GetString("pending.backend"), "memory"),
		RedisAddr:     v.GetString("pending.redis.addr"),
		RedisPassword: v.GetString("pending.redis.password"),
		RedisDB:       v.GetInt("pending.redis.db"),
		TTL:           v.GetDuration("pending.ttl"),
		MaxEntries:    v.GetInt64("pending.max_entries"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = pending.DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10_000
	}
	return cfg
}

// ServerConfig holds the HTTP adapter settings.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LoadServerConfig reads server.* keys.
func LoadServerConfig(v *viper.Viper) ServerConfig {
	cfg := ServerConfig{
		Addr:            firstNonEmpty(v.GetString("server.addr"), ":8080"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg
}
