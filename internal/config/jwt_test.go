package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_Defaults(t *testing.T) {
	t.Setenv(EnvJWTSecret, "test-secret-key")
	t.Setenv(EnvJWTExpirationHours, "")
	t.Setenv(EnvJWTIssuer, "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, DefaultJWTExpirationHours, cfg.ExpirationHours)
	assert.Equal(t, DefaultJWTIssuer, cfg.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.Expiration())
}

func TestNewJWTConfig_FromEnvironment(t *testing.T) {
	tests := []struct {
		name          string
		expiration    string
		expectedHours int
		wantErr       bool
	}{
		{name: "one hour", expiration: "1", expectedHours: 1},
		{name: "one week with spaces", expiration: " 168 ", expectedHours: 168},
		{name: "upper bound", expiration: "720", expectedHours: MaxJWTExpirationHours},
		{name: "above upper bound", expiration: "721", wantErr: true},
		{name: "zero", expiration: "0", wantErr: true},
		{name: "negative", expiration: "-5", wantErr: true},
		{name: "not a number", expiration: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvJWTSecret, "secret")
			t.Setenv(EnvJWTExpirationHours, tt.expiration)
			t.Setenv(EnvJWTIssuer, "profiles.example.com")

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
			assert.Equal(t, "profiles.example.com", cfg.Issuer)
		})
	}
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")

	cfg, err := NewJWTConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestJWTConfig_Validate(t *testing.T) {
	assert.NoError(t, (&JWTConfig{Secret: "s", ExpirationHours: 1}).Validate())
	assert.Error(t, (&JWTConfig{ExpirationHours: 1}).Validate())
	assert.Error(t, (&JWTConfig{Secret: "s"}).Validate())
}
