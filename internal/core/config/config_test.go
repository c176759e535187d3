package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: Shop
  frontendHost: https://shop.example
db:
  driver: sqlite
  dsn: file:shop.db
jwt:
  secret: s3cret
schedule:
  resetEmailVerify: ""
`), 0o600))

	c, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "Shop", c.App.Name)
	assert.Equal(t, "https://shop.example", c.App.FrontendHost)
	assert.Equal(t, "http://localhost:8080", c.App.BackendHost)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.True(t, c.DB.AutoMigrate)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 10, c.JWT.TTLHours)
	assert.Equal(t, 3, c.Auth.VerificationTTLHours)
	assert.Equal(t, "memory", c.Cache.Driver)
	assert.Equal(t, 5, c.Upload.GraceMin)
	assert.Equal(t, "0 0 3 * * *", c.Schedule.RemoveLegacyFiles)
	assert.Empty(t, c.Schedule.ResetEmailVerify, "an explicit empty schedule disables the job")
}

func TestReadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  secret: from-file\n"), 0o600))
	t.Setenv("APP_JWT_SECRET", "from-env")

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
