package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	ImageStoreLocal = "local"
	ImageStoreMinio = "minio"
)

type Config struct {
	Port        int
	ServiceName string
	LogLevel    string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	TokenSecret   string
	SessionStore  string
	RedisAddr     string
	RedisPassword string

	ImageStore     string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// LoadDotEnv reads .env into the process environment when the file exists.
// Variables already set win.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		slog.Warn("dotenv_error", "path", path, "error", err)
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        pkgconfig.EnvIntDefault("PORT", 10000),
		ServiceName: pkgconfig.EnvDefault("SERVICE_NAME", "storefront"),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    pkgconfig.EnvDefault("DB_DRIVER", pkgdb.DriverPostgres),
		DatabaseURL: pkgconfig.EnvDefault("DATABASE_URL", ""),
		DBHost:      pkgconfig.EnvDefault("DB_HOST", ""),
		DBPort:      pkgconfig.EnvIntDefault("DB_PORT", 5432),
		DBUser:      pkgconfig.EnvDefault("DB_USER", ""),
		DBPassword:  pkgconfig.EnvDefault("DB_PASSWORD", ""),
		DBName:      pkgconfig.EnvDefault("DB_NAME", ""),
		DBSSLMode:   pkgconfig.EnvDefault("DB_SSLMODE", "disable"),
		SQLitePath:  pkgconfig.EnvDefault("SQLITE_PATH", "storefront.db"),

		TokenSecret:   pkgconfig.EnvDefault("TOKEN_SECRET", ""),
		SessionStore:  pkgconfig.EnvDefault("SESSION_STORE", SessionStoreMemory),
		RedisAddr:     pkgconfig.EnvDefault("REDIS_ADDR", ""),
		RedisPassword: pkgconfig.EnvDefault("REDIS_PASSWORD", ""),

		ImageStore:     pkgconfig.EnvDefault("IMAGE_STORE", ImageStoreLocal),
		UploadDir:      pkgconfig.EnvDefault("UPLOAD_DIR", "static/uploads"),
		MinioEndpoint:  pkgconfig.EnvDefault("MINIO_ENDPOINT", ""),
		MinioAccessKey: pkgconfig.EnvDefault("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: pkgconfig.EnvDefault("MINIO_SECRET_KEY", ""),
		MinioBucket:    pkgconfig.EnvDefault("MINIO_BUCKET", "product-images"),
		MinioUseSSL:    pkgconfig.EnvBoolDefault("MINIO_USE_SSL", false),

		KafkaBrokers: pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "")),

		ESURL:      pkgconfig.EnvDefault("ES_URL", ""),
		ESUser:     pkgconfig.EnvDefault("ES_USER", ""),
		ESPassword: pkgconfig.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "products"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case pkgdb.DriverPostgres:
		if c.DatabaseURL == "" {
			if err := pkgconfig.MustNonEmpty(c.DBHost, "DB_HOST", c.DBUser, "DB_USER", c.DBName, "DB_NAME"); err != nil {
				return err
			}
		}
	case pkgdb.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		// every replica has to verify tokens the others signed
		if err := pkgconfig.MustNonEmpty(c.RedisAddr, "REDIS_ADDR", c.TokenSecret, "TOKEN_SECRET"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}

	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreMinio:
		if err := pkgconfig.MustNonEmpty(
			c.MinioEndpoint, "MINIO_ENDPOINT",
			c.MinioAccessKey, "MINIO_ACCESS_KEY",
			c.MinioSecretKey, "MINIO_SECRET_KEY",
			c.MinioBucket, "MINIO_BUCKET",
		); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore)
	}
	return nil
}

// DSN returns the connection string for DBDriver.
func (c *Config) DSN() string {
	if c.DBDriver == pkgdb.DriverSQLite {
		return c.SQLitePath
	}
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
