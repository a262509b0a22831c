package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at configPath, fills defaults and applies
// environment overrides. A missing file at the default path is not an error.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		raw, parseErr := parseRaw(content)
		if parseErr != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, parseErr)
		}
		applyRawAppConfig(&cfg, raw)
	case errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	finalize(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

func parseRaw(content []byte) (rawAppConfig, error) {
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) == 0 {
		return raw, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return raw, err
	}
	return raw, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port:        defaultPort,
		Env:         defaultEnv,
		AutoMigrate: true,
		Database: DatabaseRuntimeConfig{
			Driver:          defaultDBDriver,
			Host:            defaultDBHost,
			Port:            defaultDBPort,
			User:            defaultDBUser,
			Password:        defaultDBPassword,
			Name:            defaultDBName,
			Charset:         defaultDBCharset,
			ParseTime:       true,
			Loc:             defaultDBLoc,
			MaxOpenConns:    defaultMaxOpenConns,
			MaxIdleConns:    defaultMaxIdleConns,
			ConnMaxLifetime: defaultConnMaxLifetime,
		},
		Auth: AuthConfig{
			TokenTTL:         defaultTokenTTL,
			AllowAdminSignup: true,
		},
		Media: MediaConfig{
			Region:        defaultMediaRegion,
			Prefix:        defaultMediaPrefix,
			MaxSizeMB:     defaultMediaMaxSizeMB,
			SweepInterval: defaultSweepInterval,
		},
		RateLimit: RateLimitConfig{
			Requests: defaultRateLimitCount,
			Window:   defaultRateLimitWindow,
		},
		HTTP: HTTPConfig{BodyLimitMB: defaultBodyLimitMB},
	}
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case strings.TrimSpace(raw.FrontendURL) != "":
		cfg.AllowedOrigins = normalizeOrigins([]string{raw.FrontendURL})
	}

	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}
	if raw.AutoMigrate != nil {
		cfg.AutoMigrate = *raw.AutoMigrate
	}

	if raw.Auth.TokenTTL != 0 {
		cfg.Auth.TokenTTL = raw.Auth.TokenTTL
	}
	if raw.Auth.AllowAdminSignup != nil {
		cfg.Auth.AllowAdminSignup = *raw.Auth.AllowAdminSignup
	}

	cfg.Media = applyRawMediaConfig(cfg.Media, raw.Media)

	if raw.RateLimit.Requests != 0 {
		cfg.RateLimit.Requests = raw.RateLimit.Requests
	}
	if raw.RateLimit.Window != 0 {
		cfg.RateLimit.Window = raw.RateLimit.Window
	}
	if raw.HTTP.BodyLimitMB != 0 {
		cfg.HTTP.BodyLimitMB = raw.HTTP.BodyLimitMB
	}

	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Database.Driver); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(raw.Database.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.URL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		cfg.Host = v
	}
	if raw.Database.Port != 0 {
		cfg.Port = raw.Database.Port
	}
	if v := strings.TrimSpace(raw.Database.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Database.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		cfg.Charset = v
	}
	if raw.Database.ParseTime != nil {
		cfg.ParseTime = *raw.Database.ParseTime
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		cfg.Loc = v
	}
	if raw.Database.Params != nil {
		cfg.Params = copyStringMap(raw.Database.Params)
	}
	if raw.Database.MaxOpenConns != 0 {
		cfg.MaxOpenConns = raw.Database.MaxOpenConns
	}
	if raw.Database.MaxIdleConns != 0 {
		cfg.MaxIdleConns = raw.Database.MaxIdleConns
	}
	if raw.Database.ConnMaxLifetime != 0 {
		cfg.ConnMaxLifetime = raw.Database.ConnMaxLifetime
	}

	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}

	return normalizeRedisConfig(cfg)
}

func applyRawMediaConfig(current MediaConfig, raw rawMediaConfig) MediaConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Region); v != "" {
		cfg.Region = v
	}
	if v := strings.TrimSpace(raw.Bucket); v != "" {
		cfg.Bucket = v
	}
	if v := strings.TrimSpace(raw.AccessKeyID); v != "" {
		cfg.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.SecretAccessKey); v != "" {
		cfg.SecretAccessKey = v
	}
	if v := strings.TrimSpace(raw.CustomDomain); v != "" {
		cfg.CustomDomain = v
	}
	if raw.PathStyle != nil {
		cfg.PathStyle = *raw.PathStyle
	}
	if v := strings.TrimSpace(raw.Prefix); v != "" {
		cfg.Prefix = v
	}
	if raw.MaxSizeMB != 0 {
		cfg.MaxSizeMB = raw.MaxSizeMB
	}
	if raw.SweepInterval != 0 {
		cfg.SweepInterval = raw.SweepInterval
	}
	return cfg
}

// finalize derives the flattened connection strings once every source is merged.
func finalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.Media = normalizeMediaConfig(cfg.Media)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range, expected 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case driverMySQL:
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("database.port %d out of range, expected 1-65535", c.Database.Port)
		}
	case driverSQLite:
	default:
		return fmt.Errorf("database.driver %q not supported, expected mysql or sqlite", c.Database.Driver)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db %d must be >= 0", c.Redis.DB)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return errors.New("database connection limits must be >= 0")
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl %s must be positive", c.Auth.TokenTTL)
	}
	if c.Media.MaxSizeMB < 0 {
		return fmt.Errorf("media.max_size_mb %d must be >= 0", c.Media.MaxSizeMB)
	}
	if c.Media.SweepInterval < time.Second {
		return fmt.Errorf("media.sweep_interval %s must be at least 1s", c.Media.SweepInterval)
	}
	if c.RateLimit.Requests < 0 || c.RateLimit.Window < 0 {
		return errors.New("rate_limit values must be >= 0")
	}
	if c.HTTP.BodyLimitMB < 0 {
		return fmt.Errorf("http.body_limit_mb %d must be >= 0", c.HTTP.BodyLimitMB)
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return ResolveRuntimePath("", defaultLogsSubdir)
	}
	return ResolveRuntimePath(c.Paths.Logs, defaultLogsSubdir)
}

// Secret returns the configured JWT secret and whether the development default was used.
func (c *AppConfig) Secret() (string, bool) {
	if c == nil || strings.TrimSpace(c.JWTSecret) == "" {
		return DefaultJWTSecret, true
	}
	return c.JWTSecret, false
}

func (c *AppConfig) BodyLimitBytes() int64 {
	return int64(c.HTTP.BodyLimitMB) << 20
}

func (m MediaConfig) Enabled() bool {
	return m.Bucket != ""
}

func (m MediaConfig) MaxSizeBytes() int64 {
	return int64(m.MaxSizeMB) << 20
}

func (r RedisRuntimeConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}
