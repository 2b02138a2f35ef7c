package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsCarryBusinessConstants(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, map[string]int{"Single": 100, "Double": 100, "Triple": 100}, cfg.Hostel.Capacity)
	assert.Equal(t, int64(10000), cfg.Hostel.MonthlyRent["Single"])
	assert.Equal(t, int64(8000), cfg.Hostel.MonthlyRent["Double"])
	assert.Equal(t, int64(6000), cfg.Hostel.MonthlyRent["Triple"])
	assert.Equal(t, "Main", cfg.Hostel.DefaultBlock)
	assert.Equal(t, 500, cfg.Hostel.TotalBeds)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, EmailProviderLog, cfg.Email.Provider)
	assert.Equal(t, 5*time.Second, cfg.Email.RetryDelay)
}

func TestOverridesApply(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("HOSTEL_CAPACITY_DOUBLE", 40)
	v.Set("EMAIL_PROVIDER", "SMTP")
	v.Set("DOCUMENTS_LINK_TTL", "not-a-duration")

	cfg := fromViper(v)

	assert.Equal(t, 40, cfg.Hostel.Capacity["Double"])
	assert.Equal(t, EmailProviderSMTP, cfg.Email.Provider)
	assert.Equal(t, 30*time.Minute, cfg.Uploads.LinkTTL)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , ,b "))
}
