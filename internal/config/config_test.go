package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BOT_PASSWORD", "hunter2")
}

func clearOptional(t *testing.T) {
	t.Helper()
	t.Setenv("MAX_AUDIO_SIZE_MB", "")
	t.Setenv("WHISPER_TEMPERATURE", "")
	t.Setenv("WHISPER_LANGUAGE", "")
	t.Setenv("JOB_TIMEOUT", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	clearOptional(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxAudioMB != DefaultMaxAudioMB {
		t.Errorf("MaxAudioMB = %d, want %d", cfg.MaxAudioMB, DefaultMaxAudioMB)
	}
	if cfg.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", cfg.Temperature)
	}
	if cfg.Language != "" {
		t.Errorf("Language = %q, want auto-detect (empty)", cfg.Language)
	}
	if cfg.JobTimeout != DefaultJobTimeout {
		t.Errorf("JobTimeout = %v, want %v", cfg.JobTimeout, DefaultJobTimeout)
	}
	if cfg.MaxAudioBytes() != int64(DefaultMaxAudioMB)*1024*1024 {
		t.Errorf("MaxAudioBytes = %d", cfg.MaxAudioBytes())
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("BOT_PASSWORD", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing secrets")
	}
	for _, name := range []string{"OPENAI_API_KEY", "BOT_PASSWORD"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err, name)
		}
	}
	if strings.Contains(err.Error(), "TELEGRAM_BOT_TOKEN") {
		t.Errorf("error %q names a variable that was set", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("MAX_AUDIO_SIZE_MB", "10")
	t.Setenv("WHISPER_TEMPERATURE", "0.2")
	t.Setenv("WHISPER_LANGUAGE", "en")
	t.Setenv("JOB_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxAudioMB != 10 {
		t.Errorf("MaxAudioMB = %d, want 10", cfg.MaxAudioMB)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", cfg.Temperature)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Language)
	}
	if cfg.JobTimeout != 90*time.Second {
		t.Errorf("JobTimeout = %v, want 90s", cfg.JobTimeout)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := []struct {
		name, key, value string
	}{
		{"size not a number", "MAX_AUDIO_SIZE_MB", "huge"},
		{"size negative", "MAX_AUDIO_SIZE_MB", "-1"},
		{"temperature out of range", "WHISPER_TEMPERATURE", "1.5"},
		{"timeout garbage", "JOB_TIMEOUT", "soon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			clearOptional(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
