package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/lachho/property-sub000/internal/config"
	"github.com/lachho/property-sub000/pkg/constants"
	"github.com/spf13/viper"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string
	MaxUploadSize   string
	Logging         config.LoggingConfig
	Cache           CacheConfig
	uploadSizeBytes int64
}

// CacheConfig selects where calculator responses are cached. TTL is a Go
// duration string such as "30m"; zero keeps entries until evicted.
type CacheConfig struct {
	Backend string // none, memory, redis
	Address string
	TTL     string
	ttl     time.Duration
}

// TTLDuration returns the parsed cache TTL.
func (c CacheConfig) TTLDuration() time.Duration {
	return c.ttl
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// LoadConfig loads the server configuration from YAML, then applies
// PROPERTY_ENGINE_* environment overrides such as PROPERTY_ENGINE_ADDRESS or
// PROPERTY_ENGINE_CACHE_BACKEND. A missing file leaves the defaults in place.
// A Redis address from PROPERTY_ENGINE_REDIS_ADDR switches a disabled cache
// to Redis.
func LoadConfig(path string) (*Config, error) {
	v := newServerViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	cfg := &Config{
		Address:       strings.TrimSpace(v.GetString("address")),
		MaxUploadSize: strings.TrimSpace(v.GetString("maxUploadSize")),
		Logging: config.LoggingConfig{
			Level:      v.GetString("logging.level"),
			Format:     v.GetString("logging.format"),
			OutputFile: v.GetString("logging.outputFile"),
		},
		Cache: CacheConfig{
			Backend: v.GetString("cache.backend"),
			Address: strings.TrimSpace(v.GetString("cache.address")),
			TTL:     v.GetString("cache.ttl"),
		},
	}
	if cfg.Address == "" {
		cfg.Address = constants.DefaultServerAddress
	}

	size, err := uploadSize(v, cfg.MaxUploadSize)
	if err != nil {
		return nil, err
	}
	cfg.uploadSizeBytes = size

	if err := cfg.Cache.normalize(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(os.Getenv(constants.RedisAddrEnv)) != "" && cfg.Cache.Backend == constants.CacheBackendNone {
		cfg.Cache.Backend = constants.CacheBackendRedis
	}

	return cfg, nil
}

func newServerViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("cache.address", constants.EnvPrefix+"_CACHE_ADDRESS", constants.RedisAddrEnv)

	v.SetDefault("address", constants.DefaultServerAddress)
	v.SetDefault("maxUploadSize", fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes))
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("cache.backend", constants.CacheBackendNone)
	v.SetDefault("cache.ttl", (time.Duration(constants.DefaultCacheTTLSeconds) * time.Second).String())
	return v
}

// uploadSize reads a size such as "256K" or "10MB". viper only understands
// the two-letter units, so single-letter ones get a B appended first.
func uploadSize(v *viper.Viper, raw string) (int64, error) {
	if raw == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}
	normalized := raw
	switch strings.ToUpper(raw[len(raw)-1:]) {
	case "K", "M", "G":
		normalized += "B"
	}

	v.Set("maxUploadSize", normalized)
	size := int64(v.GetSizeInBytes("maxUploadSize"))
	if size <= 0 {
		return 0, fmt.Errorf("invalid max upload size %q", raw)
	}
	return size, nil
}

func (c *CacheConfig) normalize() error {
	backend := strings.ToLower(strings.TrimSpace(c.Backend))
	switch backend {
	case "":
		backend = constants.CacheBackendNone
	case constants.CacheBackendNone, constants.CacheBackendMemory, constants.CacheBackendRedis:
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Backend)
	}
	c.Backend = backend

	ttlStr := strings.TrimSpace(c.TTL)
	if ttlStr == "" {
		c.ttl = time.Duration(constants.DefaultCacheTTLSeconds) * time.Second
		c.TTL = c.ttl.String()
		return nil
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	if ttl < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.TTL)
	}
	c.ttl = ttl
	return nil
}
