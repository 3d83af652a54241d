package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	env := map[string]string{
		"SERVER_ADDRESS":              "0.0.0.0:9000",
		"DATABASE_URL":                "postgres://u:p@db:5432/recipes",
		"SECRET_KEY":                  "env-secret",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "45",
		"ALLOWED_EMAIL_DOMAIN":        "@example.com",
		"LOG_LEVEL":                   "debug",
		"S3_BUCKET":                   "photos",
		"IMAGE_URL_EXPIRE_MINUTES":    "5",
		"S3_REGION":                   "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c, lookup))

	assert.Equal(t, "0.0.0.0:9000", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@db:5432/recipes", c.DatabaseDSN)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 45*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "@example.com", c.AllowedEmailDomain)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "photos", c.S3Bucket)
	assert.Equal(t, 5*time.Minute, c.ImageURLValidityDuration)
	assert.Equal(t, "us-east-1", c.S3Region, "empty variables keep the previous value")
}

func TestParseEnv_RejectsBadMinutes(t *testing.T) {
	for _, v := range []string{"abc", "0", "-3"} {
		var c Config
		err := parseEnv(&c, func(k string) (string, bool) {
			return v, k == "ACCESS_TOKEN_EXPIRE_MINUTES"
		})
		require.Error(t, err, v)
	}
}

func TestLoadDotenv_FromFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RECIPEBOX_DOTENV_PROBE=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RECIPEBOX_DOTENV_PROBE") })

	require.NoError(t, loadDotenv([]string{"-env", path}))
	assert.Equal(t, "loaded", os.Getenv("RECIPEBOX_DOTENV_PROBE"))
}

func TestLoadDotenv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RECIPEBOX_DOTENV_KEEP=file\n"), 0o600))
	t.Setenv("RECIPEBOX_DOTENV_KEEP", "process")

	require.NoError(t, loadDotenv([]string{"-env", path}))
	assert.Equal(t, "process", os.Getenv("RECIPEBOX_DOTENV_KEEP"))
}

func TestLoadDotenv_NoFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, loadDotenv(nil))
}
