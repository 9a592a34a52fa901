package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RouterConfig struct {
	URL               string        `yaml:"url"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	Timeout           time.Duration `yaml:"timeout"`
	Insecure          bool          `yaml:"insecure"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	PublicEndpoint    string        `yaml:"public_endpoint"`
	ClientAllowedIPs  []string      `yaml:"client_allowed_ips"`
}

type Config struct {
	Port            string        `yaml:"port"`
	DSN             string        `yaml:"dsn"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`

	AuthEnabled  bool   `yaml:"auth_enabled"`
	AuthIssuer   string `yaml:"auth_issuer"`
	AuthJWKSURL  string `yaml:"auth_jwks_url"`
	AuthAudience string `yaml:"auth_audience"`
	AuthClientID string `yaml:"auth_client_id"`
	WriteRole    string `yaml:"write_role"`

	Router RouterConfig `yaml:"router"`

	// SealIdentity is an age X25519 identity. Without it generated private
	// keys are not stored and config export is unavailable.
	SealIdentity string `yaml:"seal_identity"`

	PeerCacheRefresh   time.Duration `yaml:"peer_cache_refresh"`
	PeerCacheTTL       time.Duration `yaml:"peer_cache_ttl"`
	ExpiryInterval     time.Duration `yaml:"expiry_interval"`
	BulkConcurrency    int           `yaml:"bulk_concurrency"`
	DuplicateKeyPolicy string        `yaml:"duplicate_key_policy"`
}

func defaultConfig() Config {
	return Config{
		Port:               "4040",
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		Router:             RouterConfig{Timeout: 10 * time.Second, RequestsPerSecond: 10, Burst: 5},
		PeerCacheRefresh:   30 * time.Second,
		PeerCacheTTL:       30 * time.Second,
		ExpiryInterval:     time.Minute,
		BulkConcurrency:    8,
		DuplicateKeyPolicy: "reject",
	}
}

// LoadConfig applies defaults, then the YAML file named by CONFIG_FILE, then
// environment variables.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	envString("PORT", &cfg.Port)
	envString("DB_CONN", &cfg.DSN)
	envString("LOG_LEVEL", &cfg.LogLevel)

	envString("AUTH_ISSUER", &cfg.AuthIssuer)
	envString("AUTH_JWKS_URL", &cfg.AuthJWKSURL)
	envString("AUTH_AUDIENCE", &cfg.AuthAudience)
	envString("AUTH_CLIENT_ID", &cfg.AuthClientID)
	envString("AUTH_WRITE_ROLE", &cfg.WriteRole)

	envString("ROUTER_URL", &cfg.Router.URL)
	envString("ROUTER_USERNAME", &cfg.Router.Username)
	envString("ROUTER_PASSWORD", &cfg.Router.Password)
	envString("ROUTER_PUBLIC_ENDPOINT", &cfg.Router.PublicEndpoint)
	if v := os.Getenv("ROUTER_CLIENT_ALLOWED_IPS"); v != "" {
		cfg.Router.ClientAllowedIPs = splitList(v)
	}

	envString("SEAL_IDENTITY", &cfg.SealIdentity)
	envString("DUPLICATE_KEY_POLICY", &cfg.DuplicateKeyPolicy)

	return errors.Join(
		envBool("AUTH_ENABLED", &cfg.AuthEnabled),
		envBool("ROUTER_INSECURE", &cfg.Router.Insecure),
		envDuration("READ_TIMEOUT", &cfg.ReadTimeout),
		envDuration("WRITE_TIMEOUT", &cfg.WriteTimeout),
		envDuration("ROUTER_TIMEOUT", &cfg.Router.Timeout),
		envDuration("PEER_CACHE_REFRESH", &cfg.PeerCacheRefresh),
		envDuration("PEER_CACHE_TTL", &cfg.PeerCacheTTL),
		envDuration("EXPIRY_INTERVAL", &cfg.ExpiryInterval),
		envFloat("ROUTER_RPS", &cfg.Router.RequestsPerSecond),
		envInt("ROUTER_BURST", &cfg.Router.Burst),
		envInt("BULK_CONCURRENCY", &cfg.BulkConcurrency),
	)
}

func (c Config) validate() error {
	if c.DSN == "" {
		return errors.New("missing required setting: DB_CONN")
	}
	if c.Router.URL == "" {
		return errors.New("missing required setting: ROUTER_URL")
	}
	switch c.DuplicateKeyPolicy {
	case "reject", "warn", "allow":
	default:
		return fmt.Errorf("invalid duplicate key policy %q", c.DuplicateKeyPolicy)
	}
	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
