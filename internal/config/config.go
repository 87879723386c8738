package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration struct
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Rest    RestConfig    `mapstructure:"rest"`
}

// StorageConfig selects and locates the storage area backing the cache
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "pebble" | "memory"
	Path    string `mapstructure:"path"`
}

// CacheConfig holds the envelope and namespace settings
type CacheConfig struct {
	Prefix        string `mapstructure:"prefix"`
	Version       string `mapstructure:"version"`
	CapacityBytes int64  `mapstructure:"capacityBytes"`
}

// RestConfig holds the HTTP API settings
type RestConfig struct {
	Addr string `mapstructure:"addr"`
}

const (
	DefaultPrefix        = "rental_app_"
	DefaultVersion       = "1.0"
	DefaultCapacityBytes = 5 * 1024 * 1024
)

// Load reads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.path", "./data/dashcache")
	v.SetDefault("cache.prefix", DefaultPrefix)
	v.SetDefault("cache.version", DefaultVersion)
	v.SetDefault("cache.capacityBytes", DefaultCapacityBytes)
	v.SetDefault("rest.addr", "127.0.0.1:8085")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DASHCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // cache.prefix -> DASHCACHE_CACHE_PREFIX
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
