package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewPayrollPolicyHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// CanteenTimezone anchors schedule dates: every scheduled-meal date is
	// normalized to midnight in this zone before it is stored or compared.
	CanteenTimezone string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string

	// Identity provider (directory) settings. Empty base URL disables the
	// provider integration and the directory client becomes a noop.
	DirectoryBaseURL string
	DirectoryToken   string

	// JWT guard settings.
	AuthJWKSURL        string
	AuthUserAudience   string
	AuthAdminAudience  string
	AuthIssuer         string
	AuthLocalHSSecret  string
	JWKSRefreshSeconds int

	DefaultOrgName string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "mensa"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		CanteenTimezone: getenv("CANTEEN_TIMEZONE", "Asia/Colombo"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "mensa"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		DirectoryBaseURL: strings.TrimSpace(getenv("DIRECTORY_BASE_URL", "")),
		DirectoryToken:   strings.TrimSpace(getenv("DIRECTORY_TOKEN", "")),

		AuthJWKSURL:        strings.TrimSpace(getenv("AUTH_JWKS_URL", "")),
		AuthUserAudience:   getenv("AUTH_USER_AUDIENCE", "mensa-api"),
		AuthAdminAudience:  getenv("AUTH_ADMIN_AUDIENCE", "mensa-admin"),
		AuthIssuer:         strings.TrimSpace(getenv("AUTH_ISSUER", "")),
		AuthLocalHSSecret:  strings.TrimSpace(getenv("AUTH_LOCAL_HS_SECRET", "")),
		JWKSRefreshSeconds: getenvInt("AUTH_JWKS_REFRESH_SECONDS", 300),

		DefaultOrgName: getenv("DEFAULT_ORG_NAME", "Main Canteen"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
