package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookshop-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	Cart         CartConfig
	Session      SessionConfig
	Redis        RedisConfig
	DB           DBConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	switch cfg.Cart.StorageDriver {
	case enums.StorageDriverRedis:
		if cfg.Redis.URL == "" && cfg.Redis.Address == "" {
			return nil, fmt.Errorf("%s or %s is required for the redis cart storage", EnvRedisURL, EnvRedisAddr)
		}
	case enums.StorageDriverSQL:
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if _, err := cfg.Checkout.Shipping(); err != nil {
		return nil, err
	}
	if _, err := cfg.Checkout.Tax(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOKSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"BOOKSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BOOKSHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"BOOKSHOP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"BOOKSHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"BOOKSHOP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

type CartConfig struct {
	StorageDriver enums.StorageDriver `envconfig:"BOOKSHOP_CART_STORAGE_DRIVER" default:"file"`
	StorageKey    string              `envconfig:"BOOKSHOP_CART_STORAGE_KEY" default:"cart"`
	FileDir       string              `envconfig:"BOOKSHOP_CART_FILE_DIR" default:"var/carts"`
	SaveTimeout   time.Duration       `envconfig:"BOOKSHOP_CART_SAVE_TIMEOUT" default:"2s"`
	IdleTTL       time.Duration       `envconfig:"BOOKSHOP_CART_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration       `envconfig:"BOOKSHOP_CART_SWEEP_INTERVAL" default:"5m"`
}

func (c CartConfig) validate() error {
	if !c.StorageDriver.IsValid() {
		return fmt.Errorf("invalid %s %q", EnvCartStorageDriver, c.StorageDriver)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("%s must not be empty", EnvCartStorageKey)
	}
	if c.StorageDriver == enums.StorageDriverFile && strings.TrimSpace(c.FileDir) == "" {
		return fmt.Errorf("%s is required for the file cart storage", EnvCartFileDir)
	}
	return nil
}

type SessionConfig struct {
	Secret     string        `envconfig:"BOOKSHOP_SESSION_SECRET" required:"true"`
	Issuer     string        `envconfig:"BOOKSHOP_SESSION_ISSUER" default:"bookshop"`
	TTL        time.Duration `envconfig:"BOOKSHOP_SESSION_TTL" default:"720h"`
	CookieName string        `envconfig:"BOOKSHOP_SESSION_COOKIE" default:"cart_session"`
	Secure     bool          `envconfig:"BOOKSHOP_SESSION_COOKIE_SECURE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOKSHOP_REDIS_URL"`
	Address      string        `envconfig:"BOOKSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"BOOKSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOKSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOKSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOKSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOKSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOKSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOKSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
	// CartTTL expires idle persisted carts; zero keeps them forever.
	CartTTL time.Duration `envconfig:"BOOKSHOP_REDIS_CART_TTL" default:"0"`
}

type DBConfig struct {
	DSN    string `envconfig:"BOOKSHOP_DB_DSN"`
	Driver string `envconfig:"BOOKSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BOOKSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"BOOKSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BOOKSHOP_DB_USER"`
	LegacyPassword string `envconfig:"BOOKSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"BOOKSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"BOOKSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BOOKSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOOKSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOOKSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOKSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type CheckoutConfig struct {
	ShippingFlat string `envconfig:"BOOKSHOP_CHECKOUT_SHIPPING" default:"4.99"`
	TaxRate      string `envconfig:"BOOKSHOP_CHECKOUT_TAX_RATE" default:"0.07"`
	Currency     string `envconfig:"BOOKSHOP_CHECKOUT_CURRENCY" default:"USD"`
}

// Shipping parses the flat shipping fee.
func (c CheckoutConfig) Shipping() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(c.ShippingFlat))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", EnvCheckoutShipping, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be non-negative", EnvCheckoutShipping)
	}
	return v, nil
}

// Tax parses the tax rate as a fraction of the subtotal.
func (c CheckoutConfig) Tax() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", EnvCheckoutTaxRate, err)
	}
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%s must be between 0 and 1", EnvCheckoutTaxRate)
	}
	return v, nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BOOKSHOP_AUTO_MIGRATE" default:"false"`
	Metrics     bool `envconfig:"BOOKSHOP_METRICS_ENABLED" default:"true"`
}

// RequireDSN resolves the DSN from the legacy host/user/name variables when
// BOOKSHOP_DB_DSN is unset. Load only does this for the sql cart storage.
func (db *DBConfig) RequireDSN() error {
	return db.ensureDSN()
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
