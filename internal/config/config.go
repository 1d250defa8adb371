package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	StaticDir    string        `mapstructure:"static_dir"`
	FrontendURL  string        `mapstructure:"frontend_url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// EmailConfig selects and configures the outgoing mail transport.
type EmailConfig struct {
	Provider     string     `mapstructure:"provider"` // resend, smtp or log; empty picks resend when a key is set
	From         string     `mapstructure:"from"`
	ResendAPIKey string     `mapstructure:"resend_api_key"`
	SMTP         SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// RedisConfig configures the exercise catalog cache. An empty address disables it.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// NATSConfig configures the domain event publisher. An empty URL disables it.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type MetricsConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AdminConfig struct {
	Emails []string `mapstructure:"emails"`
}

type UploadsConfig struct {
	MaxImageBytes int64 `mapstructure:"max_image_bytes"`
}

// legacyEnv maps the environment names used by earlier deployments onto config keys.
var legacyEnv = map[string][]string{
	"jwt.secret":           {"JWT_SECRET"},
	"email.resend_api_key": {"RESEND_API_KEY"},
	"server.frontend_url":  {"FRONTEND_URL"},
	"database.uri":         {"DATABASE_URI", "MONGODB_URI", "MONGO_URI"},
	"admin.emails":         {"ADMIN_EMAILS"},
}

// LoadConfig reads configuration from an optional .env file, config.yaml in path,
// and environment variables, in increasing order of precedence.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	for key, names := range legacyEnv {
		if err = v.BindEnv(append([]string{key}, names...)...); err != nil {
			return config, err
		}
	}

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("reading config file: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decoding config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_ADDRESS") == "" {
		config.Server.Address = ":" + port
	}
	config.Admin.Emails = normalizeEmails(config.Admin.Emails)
	if config.Email.Provider == "" {
		config.Email.Provider = defaultEmailProvider(config.Email)
	}

	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.static_dir", "client/build")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "ifitness")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket_name", "ifitness-progress")
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("email.from", "iFitness <noreply@ifitness.app>")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("nats.connect_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("uploads.max_image_bytes", 5<<20)

	// Unmarshal only sees keys viper knows about, so env-only keys need a zero default.
	for _, key := range []string{
		"s3.endpoint", "s3.access_key_id", "s3.secret_access_key",
		"email.provider",
		"email.smtp.host", "email.smtp.username", "email.smtp.password",
		"redis.address", "redis.password",
		"nats.url", "metrics.port",
	} {
		v.SetDefault(key, "")
	}
}

// Validate checks settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) must be set")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("jwt.expiration must be positive, got %s", c.JWT.Expiration)
	}
	switch c.Email.Provider {
	case "log", "smtp":
	case "resend":
		if c.Email.ResendAPIKey == "" {
			return errors.New("email.resend_api_key (RESEND_API_KEY) must be set for the resend provider")
		}
	default:
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}
	if c.Uploads.MaxImageBytes <= 0 {
		return errors.New("uploads.max_image_bytes must be positive")
	}
	return nil
}

// IsAdminEmail reports whether email is configured to receive admin rights on registration.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.Admin.Emails {
		if e == email {
			return true
		}
	}
	return false
}

// defaultEmailProvider picks resend when an API key is configured and log otherwise.
func defaultEmailProvider(c EmailConfig) string {
	if c.ResendAPIKey != "" {
		return "resend"
	}
	return "log"
}

// normalizeEmails also splits comma separated values coming from ADMIN_EMAILS.
func normalizeEmails(in []string) []string {
	var out []string
	for _, raw := range in {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				out = append(out, e)
			}
		}
	}
	return out
}
