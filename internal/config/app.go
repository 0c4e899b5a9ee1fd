package config

import (
	"log/slog"
	"os"
	"sync"
)

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	BaseURL     string
	CompanyName string
	AdminSecret string
	TokenSecret string
	UploadDir   string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			slog.Warn("APP_ENV not set, using default", slog.String("env", env))
		}
		appConfig = &AppConfig{
			Name:        getEnv("APP_NAME", "recruit-scheduler"),
			Env:         env,
			Port:        getEnv("APP_PORT", ":8000"),
			BaseURL:     getEnv("APP_URL", "http://localhost:8000"),
			CompanyName: getEnv("COMPANY_NAME", "Our Company"),
			AdminSecret: os.Getenv("ADMIN_SECRET"),
			TokenSecret: os.Getenv("TOKEN_SECRET"),
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		}
		if appConfig.TokenSecret == "" {
			slog.Warn("TOKEN_SECRET not set, candidate links are signed with ADMIN_SECRET")
			appConfig.TokenSecret = appConfig.AdminSecret
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
