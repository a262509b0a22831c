package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// DefaultJWTSecret is only meant for local development.
	DefaultJWTSecret = "sitecms-dev-secret-change-me"

	defaultPort             = 5000
	defaultEnv              = "development"
	defaultDBDriver         = "mysql"
	defaultDBHost           = "127.0.0.1"
	defaultDBPort           = 3306
	defaultDBUser           = "root"
	defaultDBPassword       = "password"
	defaultDBName           = "sitecms"
	defaultDBCharset        = "utf8mb4"
	defaultDBLoc            = "Local"
	defaultMaxOpenConns     = 25
	defaultMaxIdleConns     = 5
	defaultConnMaxLifetime  = 30 * time.Minute
	defaultRedisPort        = 6379
	defaultTokenTTL         = 7 * 24 * time.Hour
	defaultMediaRegion      = "auto"
	defaultMediaPrefix      = "media"
	defaultMediaMaxSizeMB   = 10
	defaultSweepInterval    = 10 * time.Minute
	defaultRateLimitCount   = 20
	defaultRateLimitWindow  = time.Minute
	defaultBodyLimitMB      = 50
	defaultLogsSubdir       = "logs"
	driverSQLite            = "sqlite"
	driverMySQL             = "mysql"
	mysqlURLScheme          = "mysql://"
	redisURLScheme          = "redis://"
	redisTLSURLScheme       = "rediss://"
	envDevelopmentShorthand = "dev"
)
