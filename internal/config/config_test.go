package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/slidecast/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "SLIDECAST_API_KEY", "OUTPUT_DIR", "THEME_FILE", "MAX_UPLOAD_BYTES", "REQUEST_TIMEOUT", "VOLCENGINE_TTS_APPID", "VOLCENGINE_TTS_ACCESS_TOKEN"} {
		t.Setenv(k, "")
	}

	cfg := Load(nil)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, int64(10485760), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, speech.DefaultCluster, cfg.Speech.Cluster)
	assert.False(t, cfg.Speech.Configured())

	assert.Error(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("SLIDECAST_API_KEY", "secret")
	t.Setenv("OUTPUT_DIR", "/tmp/decks")
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("VOLCENGINE_TTS_APPID", "app")
	t.Setenv("VOLCENGINE_TTS_ACCESS_TOKEN", "token")
	t.Setenv("VOLCENGINE_TTS_VOICE_TYPE", "BV700_streaming")

	cfg := Load(nil)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/tmp/decks", cfg.OutputDir)
	assert.Equal(t, int64(10485760), cfg.MaxUploadBytes)
	assert.True(t, cfg.Speech.Configured())
	assert.Equal(t, "BV700_streaming", cfg.Speech.VoiceType)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("THEME_FILE=brand.toml\nPORT=7000\n"), 0o644))

	t.Setenv("THEME_FILE", "")
	os.Unsetenv("THEME_FILE")
	t.Setenv("PORT", "8100")

	cfg := Load(nil)
	assert.Equal(t, "brand.toml", cfg.ThemeFile)
	// Real environment wins over .env.
	assert.Equal(t, "8100", cfg.Port)
}

func TestValidate_Port(t *testing.T) {
	cfg := Config{APIKey: "k", Port: "http"}
	assert.Error(t, cfg.Validate())
}
