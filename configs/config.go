package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// StoreConfig describes one tenant storefront. The registry is loaded once at
// process start and is read-only afterwards.
type StoreConfig struct {
	Domain          string `koanf:"domain"`           // e.g. frames-demo.myshopify.com
	StorefrontToken string `koanf:"storefront_token"` // Storefront API access token
	CheckoutDomain  string `koanf:"checkout_domain"`  // optional vanity checkout domain
}

// ServiceClient is an internal caller allowed to obtain tokens for the
// admin surface (order-file ingest).
type ServiceClient struct {
	ID      string   `koanf:"id"`
	Secret  string   `koanf:"secret"`
	Perms   []string `koanf:"perms"`
	Enabled bool     `koanf:"enabled"`
}

// BucketLimit is the request cap for one rate-limit bucket.
type BucketLimit struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		Env      string `koanf:"env"` // dev | staging | prod
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout    time.Duration `koanf:"read_timeout"`
		WriteTimeout   time.Duration `koanf:"write_timeout"`
		IdleTimeout    time.Duration `koanf:"idle_timeout"`
		HandlerTimeout time.Duration `koanf:"handler_timeout"`
	} `koanf:"http"`

	Stores map[string]StoreConfig `koanf:"stores"`

	Shopify struct {
		APIVersion string        `koanf:"api_version"`
		Timeout    time.Duration `koanf:"timeout"`
	} `koanf:"shopify"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	RateLimit struct {
		Cart       BucketLimit `koanf:"cart"`
		Checkout   BucketLimit `koanf:"checkout"`
		OrderFiles BucketLimit `koanf:"order_files"`
	} `koanf:"rate_limit"`

	Rabbit struct {
		Enabled  bool   `koanf:"enabled"`
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Enabled bool     `koanf:"enabled"`
		Brokers []string `koanf:"brokers"`
		GroupID string   `koanf:"group_id"`
		Topic   string   `koanf:"topic"` // order-file events
	} `koanf:"kafka"`

	Security struct {
		JWTSecret string          `koanf:"jwt_secret"`
		Issuer    string          `koanf:"issuer"`
		Audience  string          `koanf:"audience"`
		TTL       time.Duration   `koanf:"ttl"`
		Clients   []ServiceClient `koanf:"clients"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env overlay (dev/staging/prod). Optional for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix FRAMESTORE_, nested with __)
	// e.g. FRAMESTORE_MYSQL__DSN, FRAMESTORE_SECURITY__JWT_SECRET
	if err := k.Load(env.Provider("FRAMESTORE_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "FRAMESTORE_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Shopify.APIVersion == "" {
		c.Shopify.APIVersion = "2024-10"
	}
	if c.Shopify.Timeout <= 0 {
		c.Shopify.Timeout = 10 * time.Second
	}
	if c.HTTP.HandlerTimeout <= 0 {
		c.HTTP.HandlerTimeout = 15 * time.Second
	}
	def := func(b *BucketLimit, requests int) {
		if b.Requests <= 0 {
			b.Requests = requests
		}
		if b.Window <= 0 {
			b.Window = time.Minute
		}
	}
	def(&c.RateLimit.Cart, 30)
	def(&c.RateLimit.Checkout, 20)
	def(&c.RateLimit.OrderFiles, 60)
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if len(c.Stores) == 0 {
		return fmt.Errorf("stores registry required (at least one store)")
	}
	for id, s := range c.Stores {
		if s.Domain == "" || s.StorefrontToken == "" {
			return fmt.Errorf("store %q: domain and storefront_token required", id)
		}
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	return nil
}

// Store resolves a sanitized store identifier against the registry.
func (c Config) Store(id string) (StoreConfig, bool) {
	s, ok := c.Stores[id]
	return s, ok
}

// IsProd reports whether the service runs with production hardening
// (Secure cookies, gin release mode).
func (c Config) IsProd() bool {
	return c.App.Env == "prod"
}
