// Package config loads voxgram configuration from the process environment.
// A .env file in the working directory is honored for local development;
// in production the variables come straight from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the optional tunables.
const (
	DefaultMaxAudioMB  = 25
	DefaultTemperature = 0.0
	DefaultJobTimeout  = 5 * time.Minute
)

// Config represents the voxgram configuration, loaded once at startup
// and immutable afterwards.
type Config struct {
	// Required secrets
	BotToken     string // Telegram bot token from @BotFather
	OpenAIAPIKey string // API key for the Whisper endpoint
	BotPassword  string // shared secret; plaintext or a bcrypt hash

	// Tunables
	MaxAudioMB  int           // inbound payload limit in MB
	Temperature float32       // Whisper decoding temperature (0 = deterministic)
	Language    string        // ISO 639-1 language bias; empty = auto-detect
	TempDir     string        // scratch directory for audio files; empty = os.TempDir
	JobTimeout  time.Duration // overall bound on one transcription job
	LogLevel    string
}

// MaxAudioBytes returns the payload limit in bytes.
func (c *Config) MaxAudioBytes() int64 {
	return int64(c.MaxAudioMB) * 1024 * 1024
}

// Load reads the environment (and .env, if present) and validates it.
// Missing required secrets are a startup error; the process must not
// begin serving without them.
func Load() (*Config, error) {
	// Ignore the error: absence of .env just means production mode.
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		BotPassword:  os.Getenv("BOT_PASSWORD"),
		Language:     strings.TrimSpace(os.Getenv("WHISPER_LANGUAGE")),
		TempDir:      os.Getenv("TEMP_DIR"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		MaxAudioMB:   DefaultMaxAudioMB,
		Temperature:  DefaultTemperature,
		JobTimeout:   DefaultJobTimeout,
	}

	var missing []string
	if cfg.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if cfg.BotPassword == "" {
		missing = append(missing, "BOT_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if v := os.Getenv("MAX_AUDIO_SIZE_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_AUDIO_SIZE_MB %q", v)
		}
		cfg.MaxAudioMB = n
	}

	if v := os.Getenv("WHISPER_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("invalid WHISPER_TEMPERATURE %q", v)
		}
		cfg.Temperature = float32(f)
	}

	if v := os.Getenv("JOB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid JOB_TIMEOUT %q", v)
		}
		cfg.JobTimeout = d
	}

	return cfg, nil
}
