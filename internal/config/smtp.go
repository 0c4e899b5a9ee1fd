package config

import (
	"os"
	"sync"
)

type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	// RatePerMinute caps outbound messages; 0 disables the limiter.
	RatePerMinute int
}

var (
	smtpConfig *SMTPConfig
	smtpOnce   sync.Once
)

func LoadSMTPConfig() *SMTPConfig {
	smtpOnce.Do(func() {
		user := os.Getenv("SMTP_USER")
		smtpConfig = &SMTPConfig{
			Host:          getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:          getEnvInt("SMTP_PORT", 587),
			User:          user,
			Password:      os.Getenv("SMTP_PASSWORD"),
			FromEmail:     getEnv("FROM_EMAIL", user),
			RatePerMinute: getEnvInt("SMTP_RATE_PER_MINUTE", 30),
		}
	})
	return smtpConfig
}
