package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "BIOWE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreBackendFirestore = "firestore"
	StoreBackendPostgres  = "postgres"
	StoreBackendSQLite    = "sqlite"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"
)

const (
	EnvAppEnv         = "BIOWE_APP_ENV"
	EnvPort           = "BIOWE_APP_PORT"
	EnvLogLevel       = "BIOWE_LOG_LEVEL"
	EnvLogWarnStack   = "BIOWE_LOG_WARN_STACK"
	EnvCORSOrigins    = "BIOWE_CORS_ALLOWED_ORIGINS"
	EnvStoreBackend   = "BIOWE_STORE_BACKEND"
	EnvAutoMigrate    = "BIOWE_AUTO_MIGRATE"
	EnvDBDSN          = "BIOWE_DB_DSN"
	EnvDBHost         = "BIOWE_DB_HOST"
	EnvDBPort         = "BIOWE_DB_PORT"
	EnvDBUser         = "BIOWE_DB_USER"
	EnvDBPassword     = "BIOWE_DB_PASSWORD"
	EnvDBName         = "BIOWE_DB_NAME"
	EnvDBSSLMode      = "BIOWE_DB_SSLMODE"
	EnvFirebaseProj   = "BIOWE_FIREBASE_PROJECT_ID"
	EnvFirebaseEmail  = "BIOWE_FIREBASE_CLIENT_EMAIL"
	EnvFirebaseKey    = "BIOWE_FIREBASE_PRIVATE_KEY"
	EnvFirebaseCreds  = "BIOWE_FIREBASE_CREDENTIALS_FILE"
	EnvStorageBucket  = "BIOWE_FIREBASE_STORAGE_BUCKET"
	EnvAuthProvider   = "BIOWE_AUTH_PROVIDER"
	EnvJWTSecret      = "BIOWE_JWT_SECRET"
	EnvJWTIssuer      = "BIOWE_JWT_ISSUER"
	EnvRedisURL       = "BIOWE_REDIS_URL"
	EnvRedisAddr      = "BIOWE_REDIS_ADDR"
	EnvFreeShipping   = "BIOWE_PRICING_FREE_SHIPPING_THRESHOLD"
	EnvFlatShipping   = "BIOWE_PRICING_FLAT_SHIPPING"
	EnvTaxRate        = "BIOWE_PRICING_TAX_RATE"
	EnvPromoTableFile = "BIOWE_PROMO_TABLE_FILE"
	EnvMaxUploadMB    = "BIOWE_MAX_UPLOAD_MB"
	EnvPubSubProject  = "BIOWE_PUBSUB_PROJECT_ID"
	EnvOrdersTopic    = "BIOWE_PUBSUB_ORDERS_TOPIC"
	EnvPromoRateLimit = "BIOWE_RATE_LIMIT_PROMO_IP_LIMIT"
	EnvTrustedProxies = "BIOWE_RATE_LIMIT_TRUSTED_PROXIES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
