package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config guarda toda a configuração da aplicação.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	DBDriver       string        `mapstructure:"DB_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBQueryTimeout time.Duration `mapstructure:"DB_QUERY_TIMEOUT"`

	RetentionDays int           `mapstructure:"RETENTION_DAYS"`
	SweepInterval time.Duration `mapstructure:"SWEEP_INTERVAL"`
	ListLimit     int           `mapstructure:"LIST_LIMIT"`

	AdminToken      string `mapstructure:"ADMIN_TOKEN"`
	CORSOrigins     string `mapstructure:"CORS_ORIGINS"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	TrustProxy      bool   `mapstructure:"TRUST_PROXY"`

	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	MailHost    string `mapstructure:"MAIL_HOST"`
	MailPort    int    `mapstructure:"MAIL_PORT"`
	MailUser    string `mapstructure:"MAIL_USER"`
	MailPass    string `mapstructure:"MAIL_PASS"`
	MailFrom    string `mapstructure:"MAIL_FROM"`
	NotifyEmail string `mapstructure:"NOTIFY_EMAIL"`
	// Carência antes de avisar o comercial; um release nesse prazo cancela.
	NotifyDelay time.Duration `mapstructure:"NOTIFY_DELAY"`

	KommoBaseURL  string `mapstructure:"KOMMO_BASE_URL"`
	KommoAPIToken string `mapstructure:"KOMMO_API_TOKEN"`
	KommoStatusID int    `mapstructure:"KOMMO_STATUS_ID"`
}

var keys = []string{
	"SERVER_PORT", "LOG_LEVEL",
	"DB_DRIVER", "DATABASE_URL", "DB_QUERY_TIMEOUT",
	"RETENTION_DAYS", "SWEEP_INTERVAL", "LIST_LIMIT",
	"ADMIN_TOKEN", "CORS_ORIGINS", "RATE_LIMIT_PER_MIN", "TRUST_PROXY",
	"REDIS_ADDR", "RABBITMQ_URL",
	"MAIL_HOST", "MAIL_PORT", "MAIL_USER", "MAIL_PASS", "MAIL_FROM", "NOTIFY_EMAIL", "NOTIFY_DELAY",
	"KOMMO_BASE_URL", "KOMMO_API_TOKEN", "KOMMO_STATUS_ID",
}

// Load lê o .env (se existir) e o ambiente.
func Load() (*Config, error) {
	// .env é opcional; em produção tudo vem do ambiente.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_QUERY_TIMEOUT", 5*time.Second)
	v.SetDefault("RETENTION_DAYS", 13)
	v.SetDefault("SWEEP_INTERVAL", 24*time.Hour)
	v.SetDefault("LIST_LIMIT", 200)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_PER_MIN", 60)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_FROM", "nao-responda@localhost")
	v.SetDefault("NOTIFY_DELAY", 15*time.Minute)

	// AutomaticEnv só enxerga chaves conhecidas pelo viper no Unmarshal.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.RetentionDays <= 0 {
		return errors.New("RETENTION_DAYS must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive")
	}
	if c.RateLimitPerMin <= 0 {
		return errors.New("RATE_LIMIT_PER_MIN must be positive")
	}
	if c.NotifyDelay <= 0 {
		return errors.New("NOTIFY_DELAY must be positive")
	}
	return nil
}

func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.NotifyEmail != ""
}

func (c *Config) KommoEnabled() bool {
	return c.KommoBaseURL != "" && c.KommoAPIToken != ""
}
