package config

const (
	EnvPrefix = "AUTOCENTER"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"

	OutboxTransportKafka  = "kafka"
	OutboxTransportPubSub = "pubsub"
)

const (
	EnvAppEnv                 = "AUTOCENTER_APP_ENV"
	EnvPort                   = "AUTOCENTER_APP_PORT"
	EnvDBDSN                  = "AUTOCENTER_DB_DSN"
	EnvDBHost                 = "AUTOCENTER_DB_HOST"
	EnvDBUser                 = "AUTOCENTER_DB_USER"
	EnvDBName                 = "AUTOCENTER_DB_NAME"
	EnvRedisURL               = "AUTOCENTER_REDIS_URL"
	EnvJWTSecret              = "AUTOCENTER_JWT_SECRET"
	EnvJWTIssuer              = "AUTOCENTER_JWT_ISSUER"
	EnvJWTExpMins             = "AUTOCENTER_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AUTOCENTER_REFRESH_TOKEN_TTL_MINUTES"
	EnvStorageDriver          = "AUTOCENTER_STORAGE_DRIVER"
	EnvStorageLocalDir        = "AUTOCENTER_STORAGE_LOCAL_DIR"
	EnvGCSBucket              = "AUTOCENTER_GCS_BUCKET_NAME"
	EnvVehicleProviders       = "AUTOCENTER_VEHICLE_LOOKUP_PROVIDERS"
	EnvKafkaBrokers           = "AUTOCENTER_KAFKA_BROKERS"
	EnvOutboxTransport        = "AUTOCENTER_OUTBOX_TRANSPORT"
	EnvGCPProjectID           = "AUTOCENTER_GCP_PROJECT_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
