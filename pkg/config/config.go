package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
	Firebase     FirebaseConfig
	Auth         AuthConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Promo        PromoConfig
	Upload       UploadConfig
	PubSub       PubSubConfig
	RateLimit    RateLimitConfig
	Idempotency  IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"BIOWE_APP_ENV" required:"true"`
	Port           string   `envconfig:"BIOWE_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"BIOWE_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"BIOWE_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"BIOWE_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StoreConfig struct {
	Backend string `envconfig:"BIOWE_STORE_BACKEND" default:"firestore"`
}

// IsSQL reports whether documents live in a relational database.
func (s StoreConfig) IsSQL() bool {
	return s.Backend == StoreBackendPostgres || s.Backend == StoreBackendSQLite
}

type DBConfig struct {
	DSN string `envconfig:"BIOWE_DB_DSN"`

	LegacyHost     string `envconfig:"BIOWE_DB_HOST"`
	LegacyPort     int    `envconfig:"BIOWE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BIOWE_DB_USER"`
	LegacyPassword string `envconfig:"BIOWE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BIOWE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BIOWE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BIOWE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BIOWE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BIOWE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BIOWE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BIOWE_AUTO_MIGRATE" default:"false"`
}

type FirebaseConfig struct {
	ProjectID       string `envconfig:"BIOWE_FIREBASE_PROJECT_ID"`
	ClientEmail     string `envconfig:"BIOWE_FIREBASE_CLIENT_EMAIL"`
	PrivateKey      string `envconfig:"BIOWE_FIREBASE_PRIVATE_KEY"`
	CredentialsFile string `envconfig:"BIOWE_FIREBASE_CREDENTIALS_FILE"`
	StorageBucket   string `envconfig:"BIOWE_FIREBASE_STORAGE_BUCKET"`
}

// NormalizedPrivateKey turns escaped newlines from single-line env values into real ones.
func (f FirebaseConfig) NormalizedPrivateKey() string {
	return strings.ReplaceAll(f.PrivateKey, `\n`, "\n")
}

type AuthConfig struct {
	Provider  string        `envconfig:"BIOWE_AUTH_PROVIDER" default:"firebase"`
	JWTSecret string        `envconfig:"BIOWE_JWT_SECRET"`
	JWTIssuer string        `envconfig:"BIOWE_JWT_ISSUER" default:"biowe"`
	JWTTTL    time.Duration `envconfig:"BIOWE_JWT_TTL" default:"1h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BIOWE_REDIS_URL"`
	Address      string        `envconfig:"BIOWE_REDIS_ADDR"`
	Password     string        `envconfig:"BIOWE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIOWE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIOWE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIOWE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIOWE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIOWE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIOWE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type PricingConfig struct {
	FreeShippingThreshold float64 `envconfig:"BIOWE_PRICING_FREE_SHIPPING_THRESHOLD" default:"500"`
	FlatShipping          float64 `envconfig:"BIOWE_PRICING_FLAT_SHIPPING" default:"50"`
	TaxRate               float64 `envconfig:"BIOWE_PRICING_TAX_RATE" default:"0.18"`
}

type PromoConfig struct {
	TableFile string `envconfig:"BIOWE_PROMO_TABLE_FILE"`
}

type UploadConfig struct {
	MaxUploadMB   int    `envconfig:"BIOWE_MAX_UPLOAD_MB" default:"5"`
	ObjectPrefix  string `envconfig:"BIOWE_UPLOAD_OBJECT_PREFIX" default:"products/"`
	PublicBaseURL string `envconfig:"BIOWE_UPLOAD_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

// MaxBytes returns the upload ceiling in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return int64(u.MaxUploadMB) << 20
}

type PubSubConfig struct {
	ProjectID   string `envconfig:"BIOWE_PUBSUB_PROJECT_ID"`
	OrdersTopic string `envconfig:"BIOWE_PUBSUB_ORDERS_TOPIC"`
}

// Enabled reports whether order events should be published.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.OrdersTopic) != ""
}

type RateLimitConfig struct {
	PromoWindow  time.Duration `envconfig:"BIOWE_RATE_LIMIT_PROMO_WINDOW" default:"1m"`
	PromoIPLimit int           `envconfig:"BIOWE_RATE_LIMIT_PROMO_IP_LIMIT" default:"30"`

	// CIDRs or addresses of reverse proxies whose forwarding headers are honoured.
	TrustedProxies []string `envconfig:"BIOWE_RATE_LIMIT_TRUSTED_PROXIES"`
}

type IdempotencyConfig struct {
	OrdersTTL time.Duration `envconfig:"BIOWE_IDEMPOTENCY_ORDERS_TTL" default:"24h"`
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreBackendFirestore, StoreBackendPostgres, StoreBackendSQLite:
	default:
		return fmt.Errorf("%s must be one of firestore, postgres, sqlite (got %q)", EnvStoreBackend, c.Store.Backend)
	}
	switch c.Auth.Provider {
	case AuthProviderFirebase:
	case AuthProviderJWT:
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			return fmt.Errorf("%s is required when %s=jwt", EnvJWTSecret, EnvAuthProvider)
		}
	default:
		return fmt.Errorf("%s must be one of firebase, jwt (got %q)", EnvAuthProvider, c.Auth.Provider)
	}
	if c.NeedsFirebase() && strings.TrimSpace(c.Firebase.ProjectID) == "" {
		return fmt.Errorf("%s is required for the firebase store or auth provider", EnvFirebaseProj)
	}
	for _, raw := range c.RateLimit.TrustedProxies {
		if !validProxy(raw) {
			return fmt.Errorf("%s contains an invalid CIDR or address %q", EnvTrustedProxies, raw)
		}
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.FlatShipping < 0 || c.Pricing.FreeShippingThreshold < 0 {
		return fmt.Errorf("pricing values must not be negative")
	}
	switch c.Store.Backend {
	case StoreBackendPostgres:
		return c.DB.ensureDSN()
	case StoreBackendSQLite:
		if c.DB.DSN == "" {
			c.DB.DSN = "file:biowe.db?_foreign_keys=on"
		}
	}
	return nil
}

// NeedsFirebase reports whether any component talks to the Firebase project.
func (c *Config) NeedsFirebase() bool {
	return c.Store.Backend == StoreBackendFirestore || c.Auth.Provider == AuthProviderFirebase
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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

func validProxy(raw string) bool {
	raw = strings.TrimSpace(raw)
	if _, err := netip.ParsePrefix(raw); err == nil {
		return true
	}
	_, err := netip.ParseAddr(raw)
	return err == nil
}
