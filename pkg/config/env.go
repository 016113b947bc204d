package config

const EnvPrefix = "BOOKSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv = "BOOKSHOP_APP_ENV"
	EnvPort   = "BOOKSHOP_APP_PORT"

	EnvCartStorageDriver = "BOOKSHOP_CART_STORAGE_DRIVER"
	EnvCartStorageKey    = "BOOKSHOP_CART_STORAGE_KEY"
	EnvCartFileDir       = "BOOKSHOP_CART_FILE_DIR"

	EnvSessionSecret = "BOOKSHOP_SESSION_SECRET"

	EnvRedisURL  = "BOOKSHOP_REDIS_URL"
	EnvRedisAddr = "BOOKSHOP_REDIS_ADDR"

	EnvDBDSN    = "BOOKSHOP_DB_DSN"
	EnvDBDriver = "BOOKSHOP_DB_DRIVER"
	EnvDBHost   = "BOOKSHOP_DB_HOST"
	EnvDBUser   = "BOOKSHOP_DB_USER"
	EnvDBName   = "BOOKSHOP_DB_NAME"

	EnvCheckoutShipping = "BOOKSHOP_CHECKOUT_SHIPPING"
	EnvCheckoutTaxRate  = "BOOKSHOP_CHECKOUT_TAX_RATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
