package config

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOMEFORGE_PORT.
const EnvPrefix = "HOMEFORGE"

var (
	cfg  *Config
	lock sync.RWMutex
)

// Init loads .env, then config.yaml, then environment overrides.
// A missing .env or config.yaml is not an error.
func Init() {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	Set(c)
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		v.SetConfigFile(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, err
	}
	c.Prefix = strings.Trim(c.Prefix, "/")
	return c, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	c := &Config{}
	_ = v.Unmarshal(c)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "3000")
	v.SetDefault("prefix", "api")
	v.SetDefault("mode", string(ModeDebug))
	v.SetDefault("data_dir", "./data")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file", "homeforge.db")
	v.SetDefault("database.mysql.port", "3306")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("session.max_age_days", 30)
	v.SetDefault("session.store", "db")
	v.SetDefault("session.cookie_name", "homeforge_session")
	v.SetDefault("rate_limit.max", 20)
	v.SetDefault("rate_limit.window_minutes", 15)
	v.SetDefault("upload.driver", "local")
	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.max_files", 10)
	v.SetDefault("upload.base_url", "/uploads")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("preview.enable", true)
	v.SetDefault("preview.timeout_seconds", 5)
	v.SetDefault("preview.allow_private", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("otel.service_name", "homeforge")
}

// Get returns the process configuration, falling back to Default when Init was never called.
func Get() *Config {
	lock.RLock()
	c := cfg
	lock.RUnlock()
	if c != nil {
		return c
	}
	lock.Lock()
	defer lock.Unlock()
	if cfg == nil {
		cfg = Default()
	}
	return cfg
}

func Set(c *Config) {
	lock.Lock()
	cfg = c
	lock.Unlock()
}
