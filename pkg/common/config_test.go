package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: Deutsch\nspeechEnabled: false\nrequestTimeout: 1500\n"), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Deutsch", config.GetStringOrDefault("language", "English"))
	assert.False(t, config.GetBoolOrDefault("speechEnabled", true))
	assert.Equal(t, 1500*time.Millisecond, config.GetDurationOrDefault("requestTimeout", 0))
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "English", config.GetStringOrDefault("language", "English"))
	assert.Equal(t, 7, config.GetIntOrDefault("port", 7))
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: [unterminated"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigGettersIgnoreWrongTypes(t *testing.T) {
	config := NewConfig(map[string]any{"port": "8080", "speechEnabled": "yes", "voice": 42})
	assert.Equal(t, 9000, config.GetIntOrDefault("port", 9000))
	assert.True(t, config.GetBoolOrDefault("speechEnabled", true))
	assert.Equal(t, "Kore", config.GetStringOrDefault("voice", "Kore"))
}

func TestGetSecretPrefersConfigThenEnvironment(t *testing.T) {
	t.Setenv("IRIS_TEST_KEY_A", "")
	t.Setenv("IRIS_TEST_KEY_B", "from-env")

	config := NewConfig(nil)
	assert.Equal(t, "from-env", config.GetSecret("apiKey", "IRIS_TEST_KEY_A", "IRIS_TEST_KEY_B"))

	config = NewConfig(map[string]any{"apiKey": "from-config"})
	assert.Equal(t, "from-config", config.GetSecret("apiKey", "IRIS_TEST_KEY_B"))
}
