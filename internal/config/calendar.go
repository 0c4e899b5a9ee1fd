package config

import (
	"sync"
)

type CalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
}

var (
	calendarConfig *CalendarConfig
	calendarOnce   sync.Once
)

func LoadCalendarConfig() *CalendarConfig {
	calendarOnce.Do(func() {
		calendarConfig = &CalendarConfig{
			CredentialsPath: getEnv("GOOGLE_CALENDAR_CREDENTIALS_PATH", "credentials.json"),
			TokenPath:       getEnv("GOOGLE_CALENDAR_TOKEN_PATH", "token.json"),
			CalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		}
	})
	return calendarConfig
}
