package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookshop-backend/pkg/enums"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Cart.StorageDriver != enums.StorageDriverFile {
		t.Fatalf("expected default file storage, got %q", cfg.Cart.StorageDriver)
	}
	if cfg.Cart.StorageKey != "cart" {
		t.Fatalf("unexpected storage key %q", cfg.Cart.StorageKey)
	}
	if got := cfg.Cart.SaveTimeout; got != 2*time.Second {
		t.Fatalf("expected save timeout 2s, got %v", got)
	}
	if cfg.Session.CookieName != "cart_session" {
		t.Fatalf("unexpected cookie name %q", cfg.Session.CookieName)
	}

	shipping, err := cfg.Checkout.Shipping()
	if err != nil || !shipping.Equal(decimal.RequireFromString("4.99")) {
		t.Fatalf("unexpected shipping %v err=%v", shipping, err)
	}
	tax, err := cfg.Checkout.Tax()
	if err != nil || !tax.Equal(decimal.RequireFromString("0.07")) {
		t.Fatalf("unexpected tax %v err=%v", tax, err)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartStorageDriver, "floppy")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage driver to fail")
	}
}

func TestLoad_RedisDriverNeedsAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartStorageDriver, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis driver without address to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
}

func TestLoad_SQLDriverBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartStorageDriver, "sql")
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "shop")
	t.Setenv(EnvDBName, "bookshop")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.DSN != "postgres://shop@db.internal:5432/bookshop?sslmode=disable" {
		t.Fatalf("unexpected DSN %q", cfg.DB.DSN)
	}
}

func TestLoad_SQLiteNeedsDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartStorageDriver, "sql")
	t.Setenv(EnvDBDriver, "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("expected sqlite without DSN to fail")
	}
}

func TestLoad_InvalidTaxRate(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCheckoutTaxRate, "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected tax rate above 1 to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvSessionSecret, "secret")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := AppConfig{CORSOrigins: " http://a.test ,,http://b.test"}
	got := cfg.AllowedOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", got)
	}
}
