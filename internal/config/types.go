package config

import "time"

type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	DSN            string                `yaml:"dsn"`
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
	AutoMigrate    bool                  `yaml:"auto_migrate"`
	Auth           AuthConfig            `yaml:"auth"`
	Media          MediaConfig           `yaml:"media"`
	RateLimit      RateLimitConfig       `yaml:"rate_limit"`
	HTTP           HTTPConfig            `yaml:"http"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
}

type DatabaseRuntimeConfig struct {
	Driver          string            `yaml:"driver"` // "mysql" | "sqlite"
	DSN             string            `yaml:"dsn"`
	Host            string            `yaml:"host"`
	Port            int               `yaml:"port"`
	User            string            `yaml:"user"`
	Password        string            `yaml:"password"`
	Name            string            `yaml:"name"`
	Charset         string            `yaml:"charset"`
	ParseTime       bool              `yaml:"parse_time"`
	Loc             string            `yaml:"loc"`
	Params          map[string]string `yaml:"params"`
	MaxOpenConns    int               `yaml:"max_open_conns"`
	MaxIdleConns    int               `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration     `yaml:"conn_max_lifetime"`
}

// RedisRuntimeConfig is optional; an empty URL and host disables Redis.
type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type AuthConfig struct {
	TokenTTL         time.Duration `yaml:"token_ttl"`
	AllowAdminSignup bool          `yaml:"allow_admin_signup"`
}

// MediaConfig describes the S3-compatible bucket that receives uploads.
type MediaConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	Region          string        `yaml:"region"`
	Bucket          string        `yaml:"bucket"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	CustomDomain    string        `yaml:"custom_domain"`
	PathStyle       bool          `yaml:"path_style"`
	Prefix          string        `yaml:"prefix"`
	MaxSizeMB       int           `yaml:"max_size_mb"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type HTTPConfig struct {
	BodyLimitMB int `yaml:"body_limit_mb"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

type rawAppConfig struct {
	Port           int               `yaml:"port"`
	Env            string            `yaml:"env"`
	DSN            string            `yaml:"dsn"`
	DatabaseURL    string            `yaml:"database_url"`
	RedisURL       string            `yaml:"redis_url"`
	Database       rawDatabaseConfig `yaml:"database"`
	Redis          rawRedisConfig    `yaml:"redis"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	FrontendURL    string            `yaml:"frontend_url"`
	JWTSecret      string            `yaml:"jwt_secret"`
	Timezone       string            `yaml:"timezone"`
	TZ             string            `yaml:"tz"`
	AutoMigrate    *bool             `yaml:"auto_migrate"`
	Auth           rawAuthConfig     `yaml:"auth"`
	Media          rawMediaConfig    `yaml:"media"`
	RateLimit      RateLimitConfig   `yaml:"rate_limit"`
	HTTP           HTTPConfig        `yaml:"http"`
	Paths          rawPathsConfig    `yaml:"paths"`
	LogDir         string            `yaml:"log_dir"`
}

type rawDatabaseConfig struct {
	Driver          string            `yaml:"driver"`
	DSN             string            `yaml:"dsn"`
	URL             string            `yaml:"url"`
	Host            string            `yaml:"host"`
	Port            int               `yaml:"port"`
	User            string            `yaml:"user"`
	Username        string            `yaml:"username"`
	Password        string            `yaml:"password"`
	Name            string            `yaml:"name"`
	DBName          string            `yaml:"db_name"`
	Charset         string            `yaml:"charset"`
	ParseTime       *bool             `yaml:"parse_time"`
	Loc             string            `yaml:"loc"`
	Params          map[string]string `yaml:"params"`
	MaxOpenConns    int               `yaml:"max_open_conns"`
	MaxIdleConns    int               `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration     `yaml:"conn_max_lifetime"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawAuthConfig struct {
	TokenTTL         time.Duration `yaml:"token_ttl"`
	AllowAdminSignup *bool         `yaml:"allow_admin_signup"`
}

type rawMediaConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	Region          string        `yaml:"region"`
	Bucket          string        `yaml:"bucket"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	CustomDomain    string        `yaml:"custom_domain"`
	PathStyle       *bool         `yaml:"path_style"`
	Prefix          string        `yaml:"prefix"`
	MaxSizeMB       int           `yaml:"max_size_mb"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

type rawPathsConfig struct {
	Logs string `yaml:"logs"`
}
