package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Session   SessionConfig   `mapstructure:"session"`
	OIDC      OIDCConfig      `mapstructure:"oidc"`
	Log       LogConfig       `mapstructure:"log"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Mail      MailConfig      `mapstructure:"mail"`
	Media     MediaConfig     `mapstructure:"media"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Site      SiteConfig      `mapstructure:"site"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver string `mapstructure:"driver"` // "mysql" or "sqlite3"
	DSN    string `mapstructure:"dsn"`
}

// SessionConfig holds session management configuration.
type SessionConfig struct {
	Lifetime int `mapstructure:"lifetime"` // hours
}

// OIDCConfig holds OIDC client configuration.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	// AdminSubjects are the OIDC subjects granted the admin role on startup.
	AdminSubjects []string `mapstructure:"admin_subjects"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// CacheConfig holds configuration for the SQLite page cache.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MailConfig holds SMTP settings for contact notifications.
type MailConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	To       string        `mapstructure:"to"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MediaConfig selects where uploaded images live.
type MediaConfig struct {
	Driver    string        `mapstructure:"driver"` // "static" or "minio"
	BaseURL   string        `mapstructure:"base_url"`
	Endpoint  string        `mapstructure:"endpoint"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	Bucket    string        `mapstructure:"bucket"`
	UseSSL    bool          `mapstructure:"use_ssl"`
	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

// RateLimitConfig holds per-client budgets for the public form endpoints.
type RateLimitConfig struct {
	FormsPerMinute int `mapstructure:"forms_per_minute"`
	FormsBurst     int `mapstructure:"forms_burst"`
	// TrustedProxies are the reverse proxy addresses whose X-Forwarded-For
	// header is believed when keying the budgets.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// SiteConfig holds the fallback site identity used until the site
// configuration record has been edited.
type SiteConfig struct {
	Name              string `mapstructure:"name"`
	Tagline           string `mapstructure:"tagline"`
	Description       string `mapstructure:"description"`
	Keywords          string `mapstructure:"keywords"`
	Author            string `mapstructure:"author"`
	GoogleAnalyticsID string `mapstructure:"google_analytics_id"`
}

// LoadConfig reads configuration from a .env file, a config file and
// environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env file is the normal case in production.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/go-portfolio-app/")
	v.AddConfigPath("$HOME/.go-portfolio-app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "portfolio.db")
	v.SetDefault("session.lifetime", 24)
	v.SetDefault("oidc.issuer_url", "")
	v.SetDefault("oidc.client_id", "")
	v.SetDefault("oidc.client_secret", "")
	v.SetDefault("oidc.redirect_url", "")
	v.SetDefault("oidc.admin_subjects", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("cache.file_path", "cache.db")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.sendgrid.net")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "apikey")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.to", "")
	v.SetDefault("mail.timeout", 10*time.Second)
	v.SetDefault("media.driver", "static")
	v.SetDefault("media.base_url", "/media/")
	v.SetDefault("media.endpoint", "localhost:9000")
	v.SetDefault("media.access_key", "")
	v.SetDefault("media.secret_key", "")
	v.SetDefault("media.bucket", "portfolio")
	v.SetDefault("media.use_ssl", false)
	v.SetDefault("media.url_expiry", 24*time.Hour)
	v.SetDefault("ratelimit.forms_per_minute", 5)
	v.SetDefault("ratelimit.forms_burst", 5)
	v.SetDefault("ratelimit.trusted_proxies", []string{})
	v.SetDefault("site.name", "Developer Portfolio")
	v.SetDefault("site.tagline", "")
	v.SetDefault("site.description", "")
	v.SetDefault("site.keywords", "")
	v.SetDefault("site.author", "")
	v.SetDefault("site.google_analytics_id", "")
}
