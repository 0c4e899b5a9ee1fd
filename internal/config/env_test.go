package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"unset falls back", "", 10 * time.Minute},
		{"go duration", "90s", 90 * time.Second},
		{"bare minutes", "15", 15 * time.Minute},
		{"garbage falls back", "soon", 10 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_POLL_INTERVAL", tt.value)
			assert.Equal(t, tt.expected, getEnvDuration("TEST_POLL_INTERVAL", 10*time.Minute))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_SLOT_COUNT", "4")
	assert.Equal(t, 4, getEnvInt("TEST_SLOT_COUNT", 3))

	t.Setenv("TEST_SLOT_COUNT", "four")
	assert.Equal(t, 3, getEnvInt("TEST_SLOT_COUNT", 3))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_COMPANY", "")
	assert.Equal(t, "Acme", getEnv("TEST_COMPANY", "Acme"))

	t.Setenv("TEST_COMPANY", "Globex")
	assert.Equal(t, "Globex", getEnv("TEST_COMPANY", "Acme"))
}
