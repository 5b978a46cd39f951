package stt

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	. "voxgram/internal/logging"
)

// OpenAIConfig holds OpenAI Whisper configuration.
type OpenAIConfig struct {
	APIKey      string
	Model       string  // default "whisper-1"
	Temperature float32 // 0 = maximally deterministic decoding
	Language    string  // empty = automatic language identification
}

// OpenAIProvider implements STT using OpenAI's Whisper API.
type OpenAIProvider struct {
	config OpenAIConfig
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI Whisper STT provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key not configured")
	}

	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}

	L_info("stt: openai provider initialized", "model", cfg.Model, "temperature", cfg.Temperature)

	return &OpenAIProvider{
		config: cfg,
		client: openai.NewClient(cfg.APIKey),
	}, nil
}

// Transcribe converts an audio file to text using OpenAI's Whisper API.
// The verbose JSON response carries the detected language and duration.
// No prompt is supplied, so nothing biases the transcription.
func (o *OpenAIProvider) Transcribe(ctx context.Context, filePath string) (*Result, error) {
	L_debug("stt: openai transcribing", "file", filePath)

	req := openai.AudioRequest{
		Model:       o.config.Model,
		FilePath:    filePath,
		Format:      openai.AudioResponseFormatVerboseJSON,
		Temperature: o.config.Temperature,
		Language:    o.config.Language,
	}

	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classify(fmt.Errorf("openai transcription: %w", err))
	}

	result := &Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: resp.Duration,
	}

	L_debug("stt: openai transcription complete",
		"language", result.Language,
		"duration", result.Duration,
		"chars", len(result.Text),
	)

	return result, nil
}

// Name returns the provider name.
func (o *OpenAIProvider) Name() string {
	return "openai"
}

// Close releases any resources (none for the HTTP client).
func (o *OpenAIProvider) Close() error {
	return nil
}
