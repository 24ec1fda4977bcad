package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host      string    `envconfig:"HOST" mapstructure:"host"`
	Port      string    `envconfig:"PORT" mapstructure:"port"`
	Prefix    string    `envconfig:"PREFIX" mapstructure:"prefix"`
	Mode      Mode      `envconfig:"MODE" mapstructure:"mode"`
	DataDir   string    `envconfig:"DATA_DIR" mapstructure:"data_dir"`
	Database  Database  `envconfig:"DATABASE" mapstructure:"database"`
	Redis     Redis     `envconfig:"REDIS" mapstructure:"redis"`
	Session   Session   `envconfig:"SESSION" mapstructure:"session"`
	RateLimit RateLimit `envconfig:"RATE_LIMIT" mapstructure:"rate_limit"`
	Upload    Upload    `envconfig:"UPLOAD" mapstructure:"upload"`
	S3        S3        `envconfig:"S3" mapstructure:"s3"`
	Cors      Cors      `envconfig:"CORS" mapstructure:"cors"`
	Preview   Preview   `envconfig:"PREVIEW" mapstructure:"preview"`
	Log       Log       `envconfig:"LOG" mapstructure:"log"`
	Sentry    Sentry    `envconfig:"SENTRY" mapstructure:"sentry"`
	OTel      OTel      `envconfig:"OTEL" mapstructure:"otel"`
}

type Database struct {
	Driver string `envconfig:"DRIVER" mapstructure:"driver"` // sqlite or mysql
	File   string `envconfig:"FILE" mapstructure:"file"`     // sqlite file name, relative to DataDir
	Mysql  Mysql  `envconfig:"MYSQL" mapstructure:"mysql"`
}

type Mysql struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Username string `envconfig:"USERNAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
}

// Redis is optional. An empty Host disables every Redis-backed component.
type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

type Session struct {
	Secret     string `envconfig:"SECRET" mapstructure:"secret"`
	MaxAgeDays int    `envconfig:"MAX_AGE_DAYS" mapstructure:"max_age_days"`
	Store      string `envconfig:"STORE" mapstructure:"store"` // db or redis
	CookieName string `envconfig:"COOKIE_NAME" mapstructure:"cookie_name"`
}

type RateLimit struct {
	Max           int `envconfig:"MAX" mapstructure:"max"`
	WindowMinutes int `envconfig:"WINDOW_MINUTES" mapstructure:"window_minutes"`
}

type Upload struct {
	Driver        string `envconfig:"DRIVER" mapstructure:"driver"` // local or s3
	MaxFileSizeMB int64  `envconfig:"MAX_FILE_SIZE_MB" mapstructure:"max_file_size_mb"`
	MaxFiles      int    `envconfig:"MAX_FILES" mapstructure:"max_files"`
	BaseURL       string `envconfig:"BASE_URL" mapstructure:"base_url"`
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" mapstructure:"path_style"`
}

type Cors struct {
	Origins []string `envconfig:"ORIGINS" mapstructure:"origins"` // empty: HTTP reflects the request origin, websockets allow same-host only
}

// Preview controls fetching page titles for design board links.
type Preview struct {
	Enable         bool `envconfig:"ENABLE" mapstructure:"enable"`
	TimeoutSeconds int  `envconfig:"TIMEOUT_SECONDS" mapstructure:"timeout_seconds"`
	// AllowPrivate lets previews reach loopback and LAN addresses.
	AllowPrivate bool `envconfig:"ALLOW_PRIVATE" mapstructure:"allow_private"`
}

type Log struct {
	FilePath   string `envconfig:"FILE_PATH" mapstructure:"file_path"`
	Level      string `envconfig:"LEVEL" mapstructure:"level"`             // debug, info, warn, error
	MaxSize    int    `envconfig:"MAX_SIZE" mapstructure:"max_size"`       // MB
	MaxBackups int    `envconfig:"MAX_BACKUPS" mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `envconfig:"MAX_AGE" mapstructure:"max_age"`         // days
	Compress   bool   `envconfig:"COMPRESS" mapstructure:"compress"`
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"`
	Tracing     SentryTracing `envconfig:"TRACING" mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool `envconfig:"TRACE_HTTP_CALLS" mapstructure:"trace_http_calls"`
}

type OTel struct {
	Enable      bool   `envconfig:"ENABLE" mapstructure:"enable"`
	ServiceName string `envconfig:"SERVICE_NAME" mapstructure:"service_name"`
	AgentHost   string `envconfig:"AGENT_HOST" mapstructure:"agent_host"`
	AgentPort   string `envconfig:"AGENT_PORT" mapstructure:"agent_port"`
}
