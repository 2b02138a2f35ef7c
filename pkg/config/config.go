package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Email providers understood by the mailer factory.
const (
	EmailProviderLog    = "log"
	EmailProviderSMTP   = "smtp"
	EmailProviderResend = "resend"
)

type Config struct {
	Env            string
	Port           int
	APIPrefix      string
	BodyLimitBytes int64
	Institution    string

	Mongo   MongoConfig
	Redis   RedisConfig
	Audit   AuditConfig
	CORS    CORSConfig
	Log     LogConfig
	Email   EmailConfig
	Uploads UploadsConfig
	Hostel  HostelConfig
	Stats   StatsConfig
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	Namespace string
}

// AuditConfig points the audit trail at a PostgreSQL database.
type AuditConfig struct {
	Enabled  bool
	Database DatabaseConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EmailConfig selects the outbound provider and tunes the delivery queue.
type EmailConfig struct {
	Provider      string
	From          string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	ResendAPIKey  string
	PortalURL     string
	Workers       int
	MaxRetries    int
	RetryDelay    time.Duration
	MaxAttempts   int
	RetrySchedule string
}

// UploadsConfig governs admission document storage.
type UploadsConfig struct {
	Dir              string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	ThumbnailMaxPx   int
	SigningSecret    string
	LinkTTL          time.Duration
}

// HostelConfig carries the business constants used by allocation and occupancy.
// Capacity and MonthlyRent are keyed by room type name (Single, Double, Triple).
type HostelConfig struct {
	Capacity       map[string]int
	MonthlyRent    map[string]int64
	CurrencySymbol string
	DefaultBlock   string
	TotalBeds      int
}

type StatsConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.BodyLimitBytes = v.GetInt64("BODY_LIMIT_BYTES")
	cfg.Institution = v.GetString("INSTITUTION_NAME")

	cfg.Mongo = MongoConfig{
		URI:      v.GetString("MONGO_URI"),
		Database: v.GetString("MONGO_DATABASE"),
		Timeout:  parseDuration(v.GetString("MONGO_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Enabled:   v.GetBool("REDIS_ENABLED"),
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		Namespace: v.GetString("REDIS_NAMESPACE"),
	}

	cfg.Audit = AuditConfig{
		Enabled:  v.GetBool("AUDIT_ENABLED"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Email = EmailConfig{
		Provider:      strings.ToLower(v.GetString("EMAIL_PROVIDER")),
		From:          v.GetString("EMAIL_FROM"),
		SMTPHost:      v.GetString("SMTP_HOST"),
		SMTPPort:      v.GetInt("SMTP_PORT"),
		SMTPUser:      v.GetString("SMTP_USER"),
		SMTPPassword:  v.GetString("SMTP_PASSWORD"),
		ResendAPIKey:  v.GetString("RESEND_API_KEY"),
		PortalURL:     v.GetString("PORTAL_URL"),
		Workers:       v.GetInt("EMAIL_WORKERS"),
		MaxRetries:    v.GetInt("EMAIL_MAX_RETRIES"),
		RetryDelay:    parseDuration(v.GetString("EMAIL_RETRY_DELAY"), 5*time.Second),
		MaxAttempts:   v.GetInt("EMAIL_MAX_ATTEMPTS"),
		RetrySchedule: v.GetString("EMAIL_RETRY_SCHEDULE"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:              v.GetString("UPLOADS_DIR"),
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOADS_ALLOWED_MIME_TYPES")),
		ThumbnailMaxPx:   v.GetInt("UPLOADS_THUMBNAIL_MAX_PX"),
		SigningSecret:    v.GetString("DOCUMENTS_SIGNING_SECRET"),
		LinkTTL:          parseDuration(v.GetString("DOCUMENTS_LINK_TTL"), 30*time.Minute),
	}

	cfg.Hostel = HostelConfig{
		Capacity: map[string]int{
			"Single": v.GetInt("HOSTEL_CAPACITY_SINGLE"),
			"Double": v.GetInt("HOSTEL_CAPACITY_DOUBLE"),
			"Triple": v.GetInt("HOSTEL_CAPACITY_TRIPLE"),
		},
		MonthlyRent: map[string]int64{
			"Single": v.GetInt64("HOSTEL_RENT_SINGLE"),
			"Double": v.GetInt64("HOSTEL_RENT_DOUBLE"),
			"Triple": v.GetInt64("HOSTEL_RENT_TRIPLE"),
		},
		CurrencySymbol: v.GetString("HOSTEL_CURRENCY_SYMBOL"),
		DefaultBlock:   v.GetString("HOSTEL_DEFAULT_BLOCK"),
		TotalBeds:      v.GetInt("HOSTEL_TOTAL_BEDS"),
	}

	cfg.Stats = StatsConfig{
		CacheTTL: parseDuration(v.GetString("STATS_CACHE_TTL"), 2*time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("BODY_LIMIT_BYTES", 50*1024*1024)
	v.SetDefault("INSTITUTION_NAME", "College Administration")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "college_admin")
	v.SetDefault("MONGO_TIMEOUT", "10s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_NAMESPACE", "college-admin")

	v.SetDefault("AUDIT_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "college_admin_audit")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EMAIL_PROVIDER", EmailProviderLog)
	v.SetDefault("EMAIL_FROM", "Admissions <no-reply@example.com>")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("PORTAL_URL", "http://localhost:5173")
	v.SetDefault("EMAIL_WORKERS", 2)
	v.SetDefault("EMAIL_MAX_RETRIES", 3)
	v.SetDefault("EMAIL_RETRY_DELAY", "5s")
	v.SetDefault("EMAIL_MAX_ATTEMPTS", 10)
	v.SetDefault("EMAIL_RETRY_SCHEDULE", "@every 5m")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("UPLOADS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,application/pdf")
	v.SetDefault("UPLOADS_THUMBNAIL_MAX_PX", 512)
	v.SetDefault("DOCUMENTS_SIGNING_SECRET", "dev_documents_secret")
	v.SetDefault("DOCUMENTS_LINK_TTL", "30m")

	v.SetDefault("HOSTEL_CAPACITY_SINGLE", 100)
	v.SetDefault("HOSTEL_CAPACITY_DOUBLE", 100)
	v.SetDefault("HOSTEL_CAPACITY_TRIPLE", 100)
	v.SetDefault("HOSTEL_RENT_SINGLE", 10000)
	v.SetDefault("HOSTEL_RENT_DOUBLE", 8000)
	v.SetDefault("HOSTEL_RENT_TRIPLE", 6000)
	v.SetDefault("HOSTEL_CURRENCY_SYMBOL", "₹")
	v.SetDefault("HOSTEL_DEFAULT_BLOCK", "Main")
	v.SetDefault("HOSTEL_TOTAL_BEDS", 500)

	v.SetDefault("STATS_CACHE_TTL", "2m")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
