package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		AppPort:            8080,
		AppEnv:             "development",
		LogLevel:           "info",
		LogFormat:          "json",
		MongoURI:           "mongodb://mongo:27017",
		MongoDBName:        "notedeck",
		JWTSecret:          "test-secret-key-with-32-plus-characters!",
		JWTAlgorithm:       "HS256",
		BcryptCost:         12,
		AccessTokenMinutes: 60,
		APIRateMax:         100,
		APIRateWindowMin:   10,
	}
}

func TestLoadDefaults(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.APIRateMax)
	assert.Equal(t, 10, cfg.APIRateWindowMin)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MONGO_DB_NAME", "notedeck_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.AppPort)
	assert.Equal(t, "notedeck_test", cfg.MongoDBName)
	assert.True(t, cfg.IsProduction())
}

func TestLoadIsCached(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	first, err := Load()
	require.NoError(t, err)

	// later env changes are invisible until the cache resets
	t.Setenv("APP_PORT", "9999")
	second, err := Load()
	require.NoError(t, err)
	assert.Equal(t, first.AppPort, second.AppPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.AppPort = 0 },
			wantErr: "APP_PORT",
		},
		{
			name:    "empty mongo uri",
			mutate:  func(c *Config) { c.MongoURI = "" },
			wantErr: "MONGO_URI",
		},
		{
			name:    "unsupported jwt algorithm",
			mutate:  func(c *Config) { c.JWTAlgorithm = "RS256" },
			wantErr: "JWT_ALGORITHM",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "short" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *Config) { c.BcryptCost = 4 },
			wantErr: "BCRYPT_COST",
		},
		{
			name:    "bcrypt cost too high",
			mutate:  func(c *Config) { c.BcryptCost = 20 },
			wantErr: "BCRYPT_COST",
		},
		{
			name:    "zero token lifetime",
			mutate:  func(c *Config) { c.AccessTokenMinutes = 0 },
			wantErr: "ACCESS_TOKEN_MINUTES",
		},
		{
			name:    "zero rate max",
			mutate:  func(c *Config) { c.APIRateMax = 0 },
			wantErr: "API_RATE_MAX",
		},
		{
			name:    "zero rate window",
			mutate:  func(c *Config) { c.APIRateWindowMin = 0 },
			wantErr: "API_RATE_WINDOW_MIN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
