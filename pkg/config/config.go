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
	OTP           OTPConfig
	Nearby        NearbyConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Twilio        TwilioConfig
	GoogleMaps    GoogleMapsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGKMART_APP_ENV" required:"true"`
	Port         string `envconfig:"AGKMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGKMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGKMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AGKMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AGKMART_DB_DSN"`
	Driver string `envconfig:"AGKMART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"AGKMART_DB_HOST"`
	Port     int    `envconfig:"AGKMART_DB_PORT" default:"5432"`
	User     string `envconfig:"AGKMART_DB_USER"`
	Password string `envconfig:"AGKMART_DB_PASSWORD"`
	Name     string `envconfig:"AGKMART_DB_NAME"`
	SSLMode  string `envconfig:"AGKMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGKMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGKMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGKMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGKMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGKMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGKMART_REDIS_ADDR"`
	Password     string        `envconfig:"AGKMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGKMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGKMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGKMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGKMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGKMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGKMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret         string `envconfig:"AGKMART_JWT_SECRET" required:"true"`
	Issuer         string `envconfig:"AGKMART_JWT_ISSUER" required:"true"`
	ExpirationDays int    `envconfig:"AGKMART_JWT_EXPIRATION_DAYS" default:"30"`
}

// SessionTTL returns the fixed pilot session lifetime. There is no sliding
// renewal; an expired token requires a fresh OTP login.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationDays <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationDays) * 24 * time.Hour
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"AGKMART_OTP_TTL" default:"10m"`
	Digits      int           `envconfig:"AGKMART_OTP_DIGITS" default:"6"`
	EchoInDev   bool          `envconfig:"AGKMART_OTP_ECHO_IN_DEV" default:"true"`
	SMSTemplate string        `envconfig:"AGKMART_OTP_SMS_TEMPLATE" default:"Your AGK Mart login code is %s. Valid for 10 minutes."`
}

type NearbyConfig struct {
	DefaultRadiusKm  float64       `envconfig:"AGKMART_NEARBY_DEFAULT_RADIUS_KM" default:"15"`
	MaxRadiusKm      float64       `envconfig:"AGKMART_NEARBY_MAX_RADIUS_KM" default:"50"`
	DefaultLimit     int           `envconfig:"AGKMART_NEARBY_DEFAULT_LIMIT" default:"10"`
	MaxLimit         int           `envconfig:"AGKMART_NEARBY_MAX_LIMIT" default:"50"`
	UrgentAfter      time.Duration `envconfig:"AGKMART_NEARBY_URGENT_AFTER" default:"4h"`
	LocationMaxAge   time.Duration `envconfig:"AGKMART_NEARBY_LOCATION_MAX_AGE" default:"24h"`
	CandidateCeiling int           `envconfig:"AGKMART_NEARBY_CANDIDATE_CEILING" default:"500"`
}

type AuthRateLimitConfig struct {
	OTPWindow     time.Duration `envconfig:"AGKMART_AUTH_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPPhoneLimit int           `envconfig:"AGKMART_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPIPLimit    int           `envconfig:"AGKMART_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AGKMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AGKMART_AUTO_MIGRATE" default:"false"`
}

type TwilioConfig struct {
	AccountSID string `envconfig:"AGKMART_TWILIO_ACCOUNT_SID"`
	AuthToken  string `envconfig:"AGKMART_TWILIO_AUTH_TOKEN"`
	FromNumber string `envconfig:"AGKMART_TWILIO_FROM_NUMBER"`
}

// Enabled reports whether SMS sending is configured. Unconfigured SMS is
// logged and skipped rather than failing the parent operation.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"AGKMART_GOOGLE_MAPS_API_KEY"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AGKMART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AGKMART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AGKMART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"AGKMART_PUBSUB_DOMAIN_TOPIC" default:"agk-domain-events"`
	DomainSubscription string `envconfig:"AGKMART_PUBSUB_DOMAIN_SUBSCRIPTION" default:"agk-domain-events-worker"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"AGKMART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"AGKMART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"AGKMART_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
