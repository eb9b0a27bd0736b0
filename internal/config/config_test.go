package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "es", cfg.I18N.Default)
	require.Equal(t, []string{"es", "en", "fr"}, cfg.I18N.Supported)
	require.Equal(t, "STYLE", cfg.Store.Name)
	require.Equal(t, "MXN", cfg.Store.Currency)
	require.Equal(t, 50, cfg.Catalog.PageSize)
	require.Equal(t, int64(2500), cfg.Catalog.SimulationFactor)
	require.Equal(t, "America/Mexico_City", cfg.Theme.TimeZone)
	require.False(t, cfg.Session.Secure)
	_, _, pinned := cfg.Theme.PinnedDate()
	require.False(t, pinned)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
env: dev
store:
  name: From YAML
  currency: USD
catalog:
  pageSize: 10
  searchCacheTTL: 2m
log:
  level: debug
`), 0o600))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(
		"STOREFRONT_STORE_NAME=From dotenv\nSTOREFRONT_CATALOG_PAGE_SIZE=20\nSTOREFRONT_LOG_FORMAT=console\n",
	), 0o600))

	cfg, err := Load(
		WithConfigFile(yamlPath),
		WithEnvFile(envPath),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{
			"STOREFRONT_CATALOG_PAGE_SIZE": "30",
			"STOREFRONT_THEME_DATE":        "12-25",
			"STOREFRONT_LANGUAGES":         "es, EN",
		}),
	)
	require.NoError(t, err)

	require.Equal(t, "From dotenv", cfg.Store.Name)
	require.Equal(t, "USD", cfg.Store.Currency)
	require.Equal(t, 30, cfg.Catalog.PageSize)
	require.Equal(t, 2*time.Minute, cfg.Catalog.SearchCacheTTL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, []string{"es", "en"}, cfg.I18N.Supported)

	month, day, ok := cfg.Theme.PinnedDate()
	require.True(t, ok)
	require.Equal(t, time.December, month)
	require.Equal(t, 25, day)
}

func TestLoadPortFallback(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{"PORT": "9090"}))
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Addr)

	cfg, err = Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"PORT":                 "9090",
		"STOREFRONT_HTTP_ADDR": "127.0.0.1:7000",
	}))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
}

func TestLoadValidationErrors(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"STOREFRONT_ENV":               "prod",
		"STOREFRONT_STORE_CURRENCY":    "XXXX",
		"STOREFRONT_CATALOG_PAGE_SIZE": "500",
		"STOREFRONT_TIMEZONE":          "Mars/Olympus",
		"STOREFRONT_THEME_DATE":        "13-40",
		"STOREFRONT_DEFAULT_LANGUAGE":  "de",
	}))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := verr.Fields()
	require.Contains(t, fields, "Store.Currency")
	require.Contains(t, fields, "Catalog.PageSize")
	require.Contains(t, fields, "Theme.TimeZone")
	require.Contains(t, fields, "Theme.Date")
	require.Contains(t, fields, "I18N.Default")
	require.Contains(t, fields, "Session.SigningKey")
	require.Contains(t, err.Error(), "config validation failed")
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadIgnoresMissingDotEnv(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), ".env")))
	require.NoError(t, err)
}

func TestProductionDefaultsToSecureCookies(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"STOREFRONT_ENV":                 "prod",
		"STOREFRONT_SESSION_SIGNING_KEY": "0123456789abcdef0123456789abcdef",
	}))
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.True(t, cfg.Session.Secure)
}
