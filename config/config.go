// Package config resolves the client settings from defaults, an optional YAML
// file and MSCLI_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

const (
	gatewayEnvVar        = "MSCLI_GATEWAY_URL"
	storeEnvVar          = "MSCLI_STORE"
	dbPathEnvVar         = "MSCLI_DB_PATH"
	redisAddrEnvVar      = "MSCLI_REDIS_ADDR"
	redisKeyEnvVar       = "MSCLI_REDIS_KEY"
	requestTimeoutEnvVar = "MSCLI_REQUEST_TIMEOUT"
	refreshTimeoutEnvVar = "MSCLI_REFRESH_TIMEOUT"
	rateLimitEnvVar      = "MSCLI_RATE_LIMIT"
	rateBurstEnvVar      = "MSCLI_RATE_BURST"
)

// Config holds everything needed to reach the gateway and keep a session.
type Config struct {
	GatewayURL   string `yaml:"gateway_url"`
	AuthPath     string `yaml:"auth_path"`
	CustomerPath string `yaml:"customer_path"`
	ProductPath  string `yaml:"product_path"`
	BillingPath  string `yaml:"billing_path"`

	Store     string `yaml:"store"`
	DBPath    string `yaml:"db_path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisKey  string `yaml:"redis_key"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	RefreshTimeout time.Duration `yaml:"refresh_timeout"`
	RateLimit      float64       `yaml:"rate_limit"`
	RateBurst      int           `yaml:"rate_burst"`
}

// Dir is the per-user directory holding the config file and credential database.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mscli"
	}
	return filepath.Join(home, ".mscli")
}

// DefaultPath is the config file location.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		GatewayURL:     "http://localhost:8888",
		AuthPath:       "/AUTH-SERVICE/api/auth",
		CustomerPath:   "/CUSTOMER-SERVICE/api/customers",
		ProductPath:    "/INVENTORY-SERVICE/api/products",
		BillingPath:    "/BILLING-SERVICE/api/bills",
		Store:          StoreSQLite,
		DBPath:         filepath.Join(Dir(), "credentials.db"),
		RedisAddr:      "localhost:6379",
		RedisKey:       "mscli:session",
		RequestTimeout: 30 * time.Second,
		RefreshTimeout: 15 * time.Second,
		RateLimit:      0,
		RateBurst:      10,
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.GatewayURL = GetEnv(gatewayEnvVar, c.GatewayURL)
	c.Store = GetEnv(storeEnvVar, c.Store)
	c.DBPath = GetEnv(dbPathEnvVar, c.DBPath)
	c.RedisAddr = GetEnv(redisAddrEnvVar, c.RedisAddr)
	c.RedisKey = GetEnv(redisKeyEnvVar, c.RedisKey)

	var err error
	if c.RequestTimeout, err = envDuration(requestTimeoutEnvVar, c.RequestTimeout); err != nil {
		return err
	}
	if c.RefreshTimeout, err = envDuration(refreshTimeoutEnvVar, c.RefreshTimeout); err != nil {
		return err
	}
	if v := os.Getenv(rateLimitEnvVar); v != "" {
		if c.RateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid %s: %w", rateLimitEnvVar, err)
		}
	}
	if v := os.Getenv(rateBurstEnvVar); v != "" {
		if c.RateBurst, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid %s: %w", rateBurstEnvVar, err)
		}
	}
	return nil
}

// GetEnv returns the variable's value, or defaultValue when it is unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func envDuration(envVar string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(envVar)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", envVar, err)
	}
	return d, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.GatewayURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("gateway URL must be an absolute http(s) URL, got %q", c.GatewayURL))
	}
	for name, p := range map[string]string{"auth": c.AuthPath, "customer": c.CustomerPath, "product": c.ProductPath, "billing": c.BillingPath} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("%s path must start with '/', got %q", name, p))
		}
	}
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db path cannot be empty for the sqlite store"))
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis address cannot be empty for the redis store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q (want sqlite, redis or memory)", c.Store))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.RefreshTimeout <= 0 {
		errs = append(errs, fmt.Errorf("refresh timeout must be positive, got %s", c.RefreshTimeout))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit cannot be negative, got %g", c.RateLimit))
	}
	return errors.Join(errs...)
}

// AuthURL and friends join the gateway with a service path.
func (c Config) AuthURL() string     { return c.join(c.AuthPath) }
func (c Config) CustomerURL() string { return c.join(c.CustomerPath) }
func (c Config) ProductURL() string  { return c.join(c.ProductPath) }
func (c Config) BillingURL() string  { return c.join(c.BillingPath) }

func (c Config) join(p string) string {
	return strings.TrimRight(c.GatewayURL, "/") + p
}
