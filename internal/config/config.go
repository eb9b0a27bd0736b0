package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "STOREFRONT_"

	defaultEnvFile          = ".env"
	defaultAddr             = ":8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 120 * time.Second
	defaultRequestTimeout   = 30 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultPageSize         = 50
	defaultSimulationFactor = 2500
	defaultSearchCacheSize  = 256
	defaultSearchCacheTTL   = 5 * time.Minute
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Env     string        `yaml:"env" validate:"oneof=dev test prod"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	I18N    I18NConfig    `yaml:"i18n"`
	Store   StoreConfig   `yaml:"store"`
	Catalog CatalogConfig `yaml:"catalog"`
	Theme   ThemeConfig   `yaml:"theme"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"readTimeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"requestTimeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gt=0"`
}

// LogConfig selects zap level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey string `yaml:"signingKey" validate:"omitempty,min=16"`
	Secure     bool   `yaml:"secure"`
}

// I18NConfig lists the languages the storefront serves.
type I18NConfig struct {
	Default   string   `yaml:"default" validate:"required,bcp47_language_tag"`
	Supported []string `yaml:"supported" validate:"min=1,dive,bcp47_language_tag"`
}

// StoreConfig holds branding and commerce settings.
type StoreConfig struct {
	Name        string `yaml:"name" validate:"required"`
	Currency    string `yaml:"currency" validate:"required,iso4217"`
	BaseURL     string `yaml:"baseURL" validate:"omitempty,url"`
	CheckoutURL string `yaml:"checkoutURL" validate:"omitempty,url"`
}

// CatalogConfig controls catalog loading and listing.
type CatalogConfig struct {
	File             string        `yaml:"file"`
	PageSize         int           `yaml:"pageSize" validate:"gt=0,lte=100"`
	SimulationFactor int64         `yaml:"simulationFactor" validate:"gt=0"`
	SearchCacheSize  int           `yaml:"searchCacheSize" validate:"gte=0"`
	SearchCacheTTL   time.Duration `yaml:"searchCacheTTL" validate:"gte=0"`
}

// ThemeConfig controls seasonal theme resolution.
type ThemeConfig struct {
	TimeZone string `yaml:"timeZone" validate:"required,timezone"`
	// Date pins the seasonal calendar to MM-DD, for previewing a season.
	Date string `yaml:"date" validate:"omitempty,monthday"`
}

// Location returns the configured store time zone.
func (t ThemeConfig) Location() *time.Location {
	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PinnedDate parses Date. ok is false when no date is pinned.
func (t ThemeConfig) PinnedDate() (month time.Month, day int, ok bool) {
	m, d, err := parseMonthDay(t.Date)
	if err != nil {
		return 0, 0, false
	}
	return m, d, true
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool { return c.Env == "prod" }

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile   string
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithConfigFile reads a YAML file before applying environment overrides.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Env: "dev",
		Server: ServerConfig{
			Addr:            defaultAddr,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			RequestTimeout:  defaultRequestTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		I18N: I18NConfig{
			Default:   "es",
			Supported: []string{"es", "en", "fr"},
		},
		Store: StoreConfig{Name: "STYLE", Currency: "MXN"},
		Catalog: CatalogConfig{
			PageSize:         defaultPageSize,
			SimulationFactor: defaultSimulationFactor,
			SearchCacheSize:  defaultSearchCacheSize,
			SearchCacheTTL:   defaultSearchCacheTTL,
		},
		Theme: ThemeConfig{TimeZone: "America/Mexico_City"},
	}
}

// Load assembles the configuration: defaults, then the YAML file, then .env,
// then the process environment, then the explicit map.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Defaults()

	configFile := options.configFile
	if configFile == "" {
		configFile, _ = lookup(envPrefix + "CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadYAML(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg, lookup)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	cfg.Env = strings.ToLower(stringWithDefault(lookup, "ENV", cfg.Env))

	cfg.Server.Addr = stringWithDefault(lookup, "HTTP_ADDR", cfg.Server.Addr)
	if port, ok := lookup("PORT"); ok && strings.TrimSpace(port) != "" {
		if _, explicit := lookup(envPrefix + "HTTP_ADDR"); !explicit {
			cfg.Server.Addr = ":" + strings.TrimSpace(port)
		}
	}
	cfg.Server.ReadTimeout = durationWithDefault(lookup, "HTTP_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = durationWithDefault(lookup, "HTTP_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = durationWithDefault(lookup, "HTTP_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.RequestTimeout = durationWithDefault(lookup, "HTTP_REQUEST_TIMEOUT", cfg.Server.RequestTimeout)
	cfg.Server.ShutdownTimeout = durationWithDefault(lookup, "SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Log.Level = strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(stringWithDefault(lookup, "LOG_FORMAT", cfg.Log.Format))

	cfg.Session.SigningKey = stringWithDefault(lookup, "SESSION_SIGNING_KEY", cfg.Session.SigningKey)
	cfg.Session.Secure = boolWithDefault(lookup, "SESSION_SECURE", cfg.Session.Secure || cfg.Env == "prod")

	cfg.I18N.Default = strings.ToLower(stringWithDefault(lookup, "DEFAULT_LANGUAGE", cfg.I18N.Default))
	cfg.I18N.Supported = csvWithDefault(lookup, "LANGUAGES", cfg.I18N.Supported)

	cfg.Store.Name = stringWithDefault(lookup, "STORE_NAME", cfg.Store.Name)
	cfg.Store.Currency = strings.ToUpper(stringWithDefault(lookup, "STORE_CURRENCY", cfg.Store.Currency))
	cfg.Store.BaseURL = stringWithDefault(lookup, "STORE_BASE_URL", cfg.Store.BaseURL)
	cfg.Store.CheckoutURL = stringWithDefault(lookup, "CHECKOUT_URL", cfg.Store.CheckoutURL)

	cfg.Catalog.File = stringWithDefault(lookup, "CATALOG_FILE", cfg.Catalog.File)
	cfg.Catalog.PageSize = intWithDefault(lookup, "CATALOG_PAGE_SIZE", cfg.Catalog.PageSize)
	cfg.Catalog.SimulationFactor = int64(intWithDefault(lookup, "CATALOG_SIMULATION_FACTOR", int(cfg.Catalog.SimulationFactor)))
	cfg.Catalog.SearchCacheSize = intWithDefault(lookup, "SEARCH_CACHE_SIZE", cfg.Catalog.SearchCacheSize)
	cfg.Catalog.SearchCacheTTL = durationWithDefault(lookup, "SEARCH_CACHE_TTL", cfg.Catalog.SearchCacheTTL)

	cfg.Theme.TimeZone = stringWithDefault(lookup, "TIMEZONE", cfg.Theme.TimeZone)
	cfg.Theme.Date = stringWithDefault(lookup, "THEME_DATE", cfg.Theme.Date)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("monthday", func(fl validator.FieldLevel) bool {
		_, _, err := parseMonthDay(fl.Field().String())
		return err == nil
	})
	return v
}

func validateConfig(cfg Config) error {
	var fields []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, strings.TrimPrefix(fe.Namespace(), "Config."))
		}
	}

	supported := false
	for _, l := range cfg.I18N.Supported {
		if strings.EqualFold(l, cfg.I18N.Default) {
			supported = true
			break
		}
	}
	if !supported {
		fields = append(fields, "I18N.Default")
	}
	if cfg.IsProduction() && strings.TrimSpace(cfg.Session.SigningKey) == "" {
		fields = append(fields, "Session.SigningKey")
	}

	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	return values, nil
}

func parseMonthDay(value string) (time.Month, int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, errors.New("empty date")
	}
	// Leap year so 02-29 is accepted.
	t, err := time.Parse("2006-01-02", "2024-"+value)
	if err != nil {
		return 0, 0, err
	}
	return t.Month(), t.Day(), nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(envPrefix + key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(envPrefix + key); ok && value != "" {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(envPrefix + key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(envPrefix + key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(envPrefix + key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
