package config

const (
	EnvPrefix = "OAK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv   = "OAK_APP_ENV"
	EnvPort     = "OAK_APP_PORT"
	EnvLogLevel = "OAK_LOG_LEVEL"

	EnvDBDSN  = "OAK_DB_DSN"
	EnvDBHost = "OAK_DB_HOST"
	EnvDBUser = "OAK_DB_USER"
	EnvDBName = "OAK_DB_NAME"

	EnvRedisURL  = "OAK_REDIS_URL"
	EnvJWTSecret = "OAK_JWT_SECRET"
	EnvJWTIssuer = "OAK_JWT_ISSUER"
	EnvUseSQLite = "OAK_USE_SQLITE"

	EnvCatalogPath = "OAK_CATALOG_PATH"

	EnvBasketStoreTimeout     = "OAK_BASKET_STORE_TIMEOUT"
	EnvBasketAnonymousTTL     = "OAK_BASKET_ANONYMOUS_TTL"
	EnvBasketMergeConcurrency = "OAK_BASKET_MERGE_CONCURRENCY"
	EnvBasketMergeMaxRetries  = "OAK_BASKET_MERGE_MAX_RETRIES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
