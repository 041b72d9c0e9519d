package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Basket       BasketConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Basket.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OAK_APP_ENV" required:"true"`
	Port         string `envconfig:"OAK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OAK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OAK_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"OAK_LOG_FORMAT"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"OAK_DB_DSN"`
	Driver     string `envconfig:"OAK_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"OAK_SQLITE_PATH" default:"oak.db"`

	LegacyHost     string `envconfig:"OAK_DB_HOST"`
	LegacyPort     int    `envconfig:"OAK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OAK_DB_USER"`
	LegacyPassword string `envconfig:"OAK_DB_PASSWORD"`
	LegacyName     string `envconfig:"OAK_DB_NAME"`
	LegacySSLMode  string `envconfig:"OAK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OAK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OAK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OAK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OAK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OAK_REDIS_URL"`
	Address      string        `envconfig:"OAK_REDIS_ADDR"`
	Password     string        `envconfig:"OAK_REDIS_PASSWORD"`
	DB           int           `envconfig:"OAK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OAK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OAK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OAK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OAK_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"OAK_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// JWTConfig describes the tokens issued by the authentication service. This
// service only verifies them.
type JWTConfig struct {
	Secret            string `envconfig:"OAK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OAK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OAK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"OAK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"OAK_AUTO_MIGRATE" default:"false"`
}

// CatalogConfig points at an optional catalog file that replaces the embedded one.
type CatalogConfig struct {
	Path string `envconfig:"OAK_CATALOG_PATH"`
}

// CORSConfig lists the storefront origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"OAK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type BasketConfig struct {
	StoreTimeout     time.Duration `envconfig:"OAK_BASKET_STORE_TIMEOUT" default:"3s"`
	AnonymousTTL     time.Duration `envconfig:"OAK_BASKET_ANONYMOUS_TTL" default:"720h"`
	MergeConcurrency int           `envconfig:"OAK_BASKET_MERGE_CONCURRENCY" default:"4"`
	MergeLockTTL     time.Duration `envconfig:"OAK_BASKET_MERGE_LOCK_TTL" default:"30s"`
	MergeMaxRetries  int           `envconfig:"OAK_BASKET_MERGE_MAX_RETRIES" default:"3"`
	MergeRetryBase   time.Duration `envconfig:"OAK_BASKET_MERGE_RETRY_BASE" default:"100ms"`
}

func (b BasketConfig) validate() error {
	if b.StoreTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvBasketStoreTimeout)
	}
	if b.MergeConcurrency <= 0 {
		return fmt.Errorf("%s must be positive", EnvBasketMergeConcurrency)
	}
	if b.MergeMaxRetries < 0 {
		return fmt.Errorf("%s must be non-negative", EnvBasketMergeMaxRetries)
	}
	return nil
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
