package speech

import (
	"errors"
	"log/slog"
	"os"
	"time"
)

const (
	DefaultEndpoint  = "https://openspeech.bytedance.com/api/v1/tts"
	DefaultCluster   = "volcano_tts"
	DefaultVoiceType = "BV001_streaming"
	DefaultTimeout   = 30 * time.Second
)

var (
	ErrMissingAppID       = errors.New("VOLCENGINE_TTS_APPID is not set")
	ErrMissingAccessToken = errors.New("VOLCENGINE_TTS_ACCESS_TOKEN is not set")
)

// Config holds the Volcengine TTS credentials and voice settings. It is
// built once per run and shared by every synthesis call.
type Config struct {
	AppID       string
	AccessToken string
	Cluster     string
	VoiceType   string

	Endpoint string
	Timeout  time.Duration
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadConfig reads the VOLCENGINE_TTS_* variables. A voice type that is set
// but empty is reported and replaced by DefaultVoiceType. The result is not
// validated; call Validate before use.
func LoadConfig(lookup LookupFunc, log *slog.Logger) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		AppID:       get("VOLCENGINE_TTS_APPID", ""),
		AccessToken: get("VOLCENGINE_TTS_ACCESS_TOKEN", ""),
		Cluster:     get("VOLCENGINE_TTS_CLUSTER", DefaultCluster),
		VoiceType:   DefaultVoiceType,
		Endpoint:    get("VOLCENGINE_TTS_ENDPOINT", DefaultEndpoint),
		Timeout:     DefaultTimeout,
	}

	if v, ok := lookup("VOLCENGINE_TTS_VOICE_TYPE"); ok {
		if v == "" {
			if log != nil {
				log.Warn("VOLCENGINE_TTS_VOICE_TYPE is set but empty, using default", "voice_type", DefaultVoiceType)
			}
		} else {
			cfg.VoiceType = v
		}
	}

	if v, ok := lookup("VOLCENGINE_TTS_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// Validate reports the first missing credential.
func (c Config) Validate() error {
	if c.AppID == "" {
		return ErrMissingAppID
	}
	if c.AccessToken == "" {
		return ErrMissingAccessToken
	}
	return nil
}

// Configured reports whether both credentials are present.
func (c Config) Configured() bool {
	return c.Validate() == nil
}
