package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`

	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	// Resend SMTP relay by default; user is literally "resend", the password
	// is the API key.
	MailHost        string `env:"MAIL_HOST" envDefault:"smtp.resend.com"`
	MailPort        int    `env:"MAIL_PORT" envDefault:"465"`
	MailUser        string `env:"MAIL_USER" envDefault:"resend"`
	MailPass        string `env:"MAIL_PASS"`
	MailFromAddress string `env:"MAIL_FROM" envDefault:"onboarding@resend.dev"`
	MailFromName    string `env:"MAIL_FROM_NAME" envDefault:"Hemafield Flowers"`
	OwnerEmail      string `env:"OWNER_EMAIL" envDefault:"Helen@Hemafieldflowers.com.ng"`

	// Follow-up pipeline, off unless AMQPURL and both Kommo settings are set.
	AMQPURL       string `env:"AMQP_URL"`
	KommoBaseURL  string `env:"KOMMO_BASE_URL"`
	KommoAPIToken string `env:"KOMMO_API_TOKEN"`
}

func (c *Config) MailConfigured() bool {
	return c.MailHost != "" && c.MailPass != ""
}

func (c *Config) KommoConfigured() bool {
	return c.KommoBaseURL != "" && c.KommoAPIToken != ""
}

// FollowUpsEnabled reports whether captured leads are queued for the CRM.
// A broker without a CRM to deliver to would only fill the dead-letter queue.
func (c *Config) FollowUpsEnabled() bool {
	return c.AMQPURL != "" && c.KommoConfigured()
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
