package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PICKPACKZ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PICKPACKZ_DB_DSN"
	EnvDBHost = "PICKPACKZ_DB_HOST"
	EnvDBUser = "PICKPACKZ_DB_USER"
	EnvDBName = "PICKPACKZ_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	ScanRateLimit ScanRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string `envconfig:"PICKPACKZ_APP_ENV" required:"true"`
	Port           string `envconfig:"PICKPACKZ_APP_PORT" required:"true"`
	SiteCode       string `envconfig:"PICKPACKZ_APP_SITE_CODE" default:"MAIN"`
	LogLevel       string `envconfig:"PICKPACKZ_LOG_LEVEL" default:"info"`
	LogWarnStack   bool   `envconfig:"PICKPACKZ_LOG_WARN_STACK" default:"false"`
	AllowedOrigins string `envconfig:"PICKPACKZ_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Origins splits the comma-separated allow list for the CORS middleware.
func (a AppConfig) Origins() []string {
	parts := strings.Split(a.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"PICKPACKZ_DB_DSN"`
	Driver string `envconfig:"PICKPACKZ_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PICKPACKZ_DB_HOST"`
	LegacyPort     int    `envconfig:"PICKPACKZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PICKPACKZ_DB_USER"`
	LegacyPassword string `envconfig:"PICKPACKZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"PICKPACKZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"PICKPACKZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PICKPACKZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PICKPACKZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PICKPACKZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PICKPACKZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PICKPACKZ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PICKPACKZ_REDIS_ADDR"`
	Password     string        `envconfig:"PICKPACKZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"PICKPACKZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PICKPACKZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PICKPACKZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PICKPACKZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PICKPACKZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PICKPACKZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PICKPACKZ_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PICKPACKZ_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PICKPACKZ_JWT_EXPIRATION_MINUTES" default:"480"`
}

// ScanRateLimitConfig throttles barcode-scan style mutations (pick/pack) per
// actor. Scanners retry aggressively on flaky networks; the limit bounds the
// damage without affecting normal scan cadence.
type ScanRateLimitConfig struct {
	Window time.Duration `envconfig:"PICKPACKZ_SCAN_RATE_LIMIT_WINDOW" default:"10s"`
	Limit  int           `envconfig:"PICKPACKZ_SCAN_RATE_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite       bool `envconfig:"PICKPACKZ_USE_SQLITE" default:"false"`
	AutoMigrate     bool `envconfig:"PICKPACKZ_AUTO_MIGRATE" default:"false"`
	RestockOnCancel bool `envconfig:"PICKPACKZ_RESTOCK_ON_CANCEL" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = "file:pickpackz.db?_busy_timeout=5000"
		db.Driver = "sqlite"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
