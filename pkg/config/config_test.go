package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("MAX_OFFERS", "not-a-number")

	conf := NewConfig()

	assert.Equal(t, StoreBackendMemory, conf.StoreBackend)
	assert.Equal(t, 5, conf.MaxOffers)
	assert.Equal(t, 20, conf.SearchLimit)
	assert.Equal(t, "ru", conf.SearchCountry)
}

func TestGetDurationEnvDefault(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"90m", 90 * time.Minute},
		{"3600", time.Hour},
		{"0", 0},
		{"soon", 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_TTL", tt.value)
			assert.Equal(t, tt.want, getDurationEnvDefault("TEST_TTL", 5*time.Minute))
		})
	}
}

func TestGetBoolEnvDefault(t *testing.T) {
	t.Setenv("TEST_FLAG", "true")
	assert.True(t, getBoolEnvDefault("TEST_FLAG", false))

	t.Setenv("TEST_FLAG", "maybe")
	assert.False(t, getBoolEnvDefault("TEST_FLAG", false))
}
