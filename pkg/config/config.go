package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Loyalty       LoyaltyConfig
	VehicleLookup VehicleLookupConfig
	Storage       StorageConfig
	GCP           GCPConfig
	Kafka         KafkaConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Outbox.validate(cfg.GCP); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env           string `envconfig:"AUTOCENTER_APP_ENV" required:"true"`
	Port          string `envconfig:"AUTOCENTER_APP_PORT" required:"true"`
	LogLevel      string `envconfig:"AUTOCENTER_LOG_LEVEL" default:"info"`
	LogWarnStack  bool   `envconfig:"AUTOCENTER_LOG_WARN_STACK" default:"false"`
	LogFormat     string `envconfig:"AUTOCENTER_LOG_FORMAT" default:"json"`
	PublicBaseURL string `envconfig:"AUTOCENTER_PUBLIC_BASE_URL" default:"http://localhost:8080"`
	CORSOrigins   string `envconfig:"AUTOCENTER_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	return splitList(a.CORSOrigins)
}

type ServiceConfig struct {
	Kind string `envconfig:"AUTOCENTER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN        string `envconfig:"AUTOCENTER_DB_DSN"`
	Driver     string `envconfig:"AUTOCENTER_DB_DRIVER" default:"postgres"`
	RLSEnabled bool   `envconfig:"AUTOCENTER_DB_RLS_ENABLED" default:"false"`

	LegacyHost     string `envconfig:"AUTOCENTER_DB_HOST"`
	LegacyPort     int    `envconfig:"AUTOCENTER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUTOCENTER_DB_USER"`
	LegacyPassword string `envconfig:"AUTOCENTER_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUTOCENTER_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUTOCENTER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUTOCENTER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTOCENTER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTOCENTER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTOCENTER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"AUTOCENTER_DB_SLOW_QUERY" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUTOCENTER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUTOCENTER_REDIS_ADDR"`
	Password     string        `envconfig:"AUTOCENTER_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTOCENTER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTOCENTER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUTOCENTER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUTOCENTER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTOCENTER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTOCENTER_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"AUTOCENTER_REDIS_KEY_PREFIX" default:"ac"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AUTOCENTER_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AUTOCENTER_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AUTOCENTER_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AUTOCENTER_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AUTOCENTER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AUTOCENTER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AUTOCENTER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AUTOCENTER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AUTOCENTER_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AUTOCENTER_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AUTOCENTER_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AUTOCENTER_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AUTOCENTER_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AUTOCENTER_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AUTOCENTER_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	LookupWindow       time.Duration `envconfig:"AUTOCENTER_RATE_LIMIT_PLATE_LOOKUP_WINDOW" default:"1m"`
	LookupIPLimit      int           `envconfig:"AUTOCENTER_RATE_LIMIT_PLATE_LOOKUP_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AUTOCENTER_AUTO_MIGRATE" default:"false"`
}

// LoyaltyConfig holds the defaults applied when no loyalty_settings row exists.
type LoyaltyConfig struct {
	PointsPerReal    string `envconfig:"AUTOCENTER_LOYALTY_POINTS_PER_REAL" default:"1"`
	BronzeMultiplier string `envconfig:"AUTOCENTER_LOYALTY_BRONZE_MULTIPLIER" default:"1"`
	SilverMultiplier string `envconfig:"AUTOCENTER_LOYALTY_SILVER_MULTIPLIER" default:"1.25"`
	GoldMultiplier   string `envconfig:"AUTOCENTER_LOYALTY_GOLD_MULTIPLIER" default:"1.5"`
	SilverThreshold  int64  `envconfig:"AUTOCENTER_LOYALTY_SILVER_THRESHOLD" default:"1000"`
	GoldThreshold    int64  `envconfig:"AUTOCENTER_LOYALTY_GOLD_THRESHOLD" default:"5000"`
}

type VehicleLookupConfig struct {
	Providers        string        `envconfig:"AUTOCENTER_VEHICLE_LOOKUP_PROVIDERS" default:"placafipe,apibrasil"`
	CacheTTL         time.Duration `envconfig:"AUTOCENTER_VEHICLE_LOOKUP_CACHE_TTL" default:"24h"`
	SharedCache      bool          `envconfig:"AUTOCENTER_VEHICLE_LOOKUP_SHARED_CACHE" default:"true"`
	Timeout          time.Duration `envconfig:"AUTOCENTER_VEHICLE_LOOKUP_TIMEOUT" default:"8s"`
	PlacaFipeBaseURL string        `envconfig:"AUTOCENTER_PLACAFIPE_BASE_URL" default:"https://api.placafipe.com.br"`
	PlacaFipeToken   string        `envconfig:"AUTOCENTER_PLACAFIPE_TOKEN"`
	APIBrasilBaseURL string        `envconfig:"AUTOCENTER_APIBRASIL_BASE_URL" default:"https://gateway.apibrasil.io"`
	APIBrasilToken   string        `envconfig:"AUTOCENTER_APIBRASIL_TOKEN"`
	APIBrasilDevice  string        `envconfig:"AUTOCENTER_APIBRASIL_DEVICE_TOKEN"`
}

// ProviderOrder returns the configured provider names in priority order.
func (v VehicleLookupConfig) ProviderOrder() []string {
	return splitList(strings.ToLower(v.Providers))
}

type StorageConfig struct {
	Driver         string `envconfig:"AUTOCENTER_STORAGE_DRIVER" default:"local"`
	LocalDir       string `envconfig:"AUTOCENTER_STORAGE_LOCAL_DIR" default:"./uploads"`
	PublicBaseURL  string `envconfig:"AUTOCENTER_STORAGE_PUBLIC_BASE_URL" default:"http://localhost:8080/uploads"`
	GCSBucket      string `envconfig:"AUTOCENTER_GCS_BUCKET_NAME"`
	MaxUploadBytes int64  `envconfig:"AUTOCENTER_MAX_UPLOAD_BYTES" default:"10485760"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(s.Driver) {
	case StorageDriverLocal:
		if s.LocalDir == "" {
			return fmt.Errorf("%s is required for local storage", EnvStorageLocalDir)
		}
	case StorageDriverGCS:
		if s.GCSBucket == "" {
			return fmt.Errorf("%s is required for gcs storage", EnvGCSBucket)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
	return nil
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AUTOCENTER_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AUTOCENTER_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AUTOCENTER_GOOGLE_APPLICATION_CREDENTIALS"`
}

type KafkaConfig struct {
	Brokers      string        `envconfig:"AUTOCENTER_KAFKA_BROKERS" default:"localhost:9092"`
	TopicPrefix  string        `envconfig:"AUTOCENTER_KAFKA_TOPIC_PREFIX" default:"autocenter"`
	WriteTimeout time.Duration `envconfig:"AUTOCENTER_KAFKA_WRITE_TIMEOUT" default:"10s"`
}

// BrokerList returns the configured broker addresses.
func (k KafkaConfig) BrokerList() []string {
	return splitList(k.Brokers)
}

type OutboxConfig struct {
	Transport      string `envconfig:"AUTOCENTER_OUTBOX_TRANSPORT" default:"kafka"`
	BatchSize      int    `envconfig:"AUTOCENTER_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"AUTOCENTER_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"AUTOCENTER_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// TransportName returns the normalized outbox transport.
func (o OutboxConfig) TransportName() string {
	return strings.ToLower(strings.TrimSpace(o.Transport))
}

func (o OutboxConfig) validate(gcp GCPConfig) error {
	switch o.TransportName() {
	case OutboxTransportKafka:
	case OutboxTransportPubSub:
		if strings.TrimSpace(gcp.ProjectID) == "" {
			return fmt.Errorf("%s is required for the pubsub outbox transport", EnvGCPProjectID)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvOutboxTransport, o.Transport)
	}
	return nil
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

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
