package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

// inTempDir runs the test in an empty working directory so that no stray
// env file is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "katalog.sqlite3", cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Zero(t, cfg.RequestTimeout)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, ":3000", cfg.MockAddr)
	assert.Equal(t, ":memory:", cfg.MockDB)
}

func TestEnvironmentOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("KATALOG_API_URL", "https://api.example.com/")
	t.Setenv("KATALOG_SESSION_TTL", "90m")
	t.Setenv("KATALOG_COOKIE_SECURE", "true")
	t.Setenv("KATALOG_LOG_LEVEL", "DEBUG")

	cfg, err := Load(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestEnvFile(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "katalog.env"),
		[]byte("ADDR=:9090\nREQUEST_TIMEOUT=5s\n"), 0o600))

	cfg, err := Load(newViper(), "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)

	// The environment wins over the file.
	t.Setenv("KATALOG_ADDR", ":7070")
	cfg, err = Load(newViper(), "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestExplicitFileMustExist(t *testing.T) {
	dir := inTempDir(t)

	_, err := Load(newViper(), filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"KATALOG_API_URL", "not a url", "API_URL must be a URL address"},
		{"KATALOG_LOG_LEVEL", "loud", "LOG_LEVEL must be one of the following values: debug, info, warn, error"},
		{"KATALOG_SESSION_TTL", "0s", "SESSION_TTL must not be less than 1s"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			inTempDir(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(newViper(), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
