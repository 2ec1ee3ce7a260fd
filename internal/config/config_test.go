package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpersFallBackToDefaults(t *testing.T) {
	t.Setenv("VIBESHARE_TEST_BOOL", "not-a-bool")
	t.Setenv("VIBESHARE_TEST_DURATION", "soon")
	t.Setenv("VIBESHARE_TEST_INT", "-3")

	assert.True(t, envBool("VIBESHARE_TEST_BOOL", true))
	assert.Equal(t, time.Second, envDuration("VIBESHARE_TEST_DURATION", time.Second))
	assert.Equal(t, 10, envInt("VIBESHARE_TEST_INT", 10))
	assert.Equal(t, "fallback", envString("VIBESHARE_TEST_MISSING", "fallback"))
}

func TestEnvHelpersParseValues(t *testing.T) {
	t.Setenv("VIBESHARE_TEST_BOOL", "true")
	t.Setenv("VIBESHARE_TEST_DURATION", "1500ms")
	t.Setenv("VIBESHARE_TEST_INT", "7")

	assert.True(t, envBool("VIBESHARE_TEST_BOOL", false))
	assert.Equal(t, 1500*time.Millisecond, envDuration("VIBESHARE_TEST_DURATION", time.Second))
	assert.Equal(t, 7, envInt("VIBESHARE_TEST_INT", 10))
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:            "Vibeshare",
		JWTSecret:          "super-secret",
		ResendAPIKey:       "re_123",
		GitHubClientID:     "gh-id",
		GitHubClientSecret: "gh-secret",
		S3SecretKey:        "s3-secret",
		S3Bucket:           "media",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "Vibeshare", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.S3SecretKey)
	assert.Equal(t, "set", safe.GitHubClientSecret)
	assert.True(t, safe.GitHubEnabled())
	assert.True(t, safe.UploadsEnabled())
}
