package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDurationDefaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("OTP_TTL", "")

	cfg := LoadConfig()

	assert.Equal(t, 168*time.Hour, cfg.JWTTTL, "token validity defaults to 7 days")
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL, "OTP validity defaults to 10 minutes")
}

func TestLoadConfigDurationOverrides(t *testing.T) {
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("OTP_TTL", "20s") // the short window one revision of the product shipped with

	cfg := LoadConfig()

	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 20*time.Second, cfg.OTPTTL)
}

func TestLoadConfigMalformedDurationFallsBack(t *testing.T) {
	t.Setenv("OTP_TTL", "ten minutes")

	cfg := LoadConfig()

	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
}
