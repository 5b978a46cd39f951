// Package stt provides speech-to-text transcription for audio content.
package stt

import "context"

// Result is one completed transcription.
type Result struct {
	// Text is the transcribed speech.
	Text string
	// Language is the detected ISO 639-1 language code ("pt", "en").
	Language string
	// Duration is the audio length in seconds as reported by the API.
	Duration float64
}

// Provider is the interface for STT implementations.
type Provider interface {
	// Transcribe converts an audio file to text. filePath should be a
	// canonical-encoding audio file (MP3 mono 16kHz).
	Transcribe(ctx context.Context, filePath string) (*Result, error)

	// Name returns the provider name (e.g., "openai")
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}
