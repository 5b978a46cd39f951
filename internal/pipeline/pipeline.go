// Package pipeline runs one transcription job end to end: size check,
// fetch, convert, transcribe, format. Stages run strictly in sequence
// and every temporary file is removed on every exit path.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"voxgram/internal/audio"
	"voxgram/internal/logging"
	"voxgram/internal/reply"
	"voxgram/internal/stt"
)

// Job describes one inbound audio message.
type Job struct {
	UserID       int64
	FileID       string // messaging-platform file reference
	FileName     string // original name; empty for voice notes
	Size         int64  // size reported by the platform, bytes
	DurationHint int    // duration in seconds per platform metadata, 0 if unknown
}

// Fetcher retrieves an attachment's bytes to a local path. The Telegram
// adapter implements this; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, fileID, destPath string) error
}

// Converter normalizes an audio file to the canonical encoding.
type Converter interface {
	Convert(ctx context.Context, inputPath string) (string, error)
}

// Transcriber turns canonical audio into a transcription result,
// reporting how many attempts were made.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (*stt.Result, int, error)
}

// Runner wires the stages together.
type Runner struct {
	fetcher     Fetcher
	converter   Converter
	transcriber Transcriber

	maxBytes int64
	tempDir  string
	timeout  time.Duration
}

// Config holds Runner construction parameters.
type Config struct {
	Fetcher     Fetcher
	Converter   Converter
	Transcriber Transcriber
	MaxBytes    int64
	TempDir     string
	Timeout     time.Duration // overall bound for one job
}

// NewRunner creates a pipeline Runner.
func NewRunner(cfg Config) *Runner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Runner{
		fetcher:     cfg.Fetcher,
		converter:   cfg.Converter,
		transcriber: cfg.Transcriber,
		maxBytes:    cfg.MaxBytes,
		tempDir:     cfg.TempDir,
		timeout:     timeout,
	}
}

// Run executes the job and returns the rendered reply text. Any stage
// failure aborts the remaining stages and returns a typed error for
// UserMessage to translate. No partial reply is ever produced.
func (r *Runner) Run(ctx context.Context, job Job) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Fail fast before touching the network.
	if err := audio.ValidateSize(job.Size, r.maxBytes); err != nil {
		return "", err
	}

	ext := audio.Ext(job.FileName)
	if ext == "" {
		// Voice notes carry no file name; Telegram records them as OGG/Opus.
		ext = "ogg"
	}
	if err := audio.ValidateFormat(ext); err != nil {
		return "", err
	}

	inputPath, err := audio.TempFile(r.tempDir, ext)
	if err != nil {
		return "", fmt.Errorf("allocate temp file: %w", err)
	}
	defer audio.Cleanup(inputPath)

	if err := r.fetcher.Fetch(ctx, job.FileID, inputPath); err != nil {
		return "", fmt.Errorf("fetch attachment: %w", err)
	}

	// The reported size is client-supplied; re-check what actually landed.
	if err := audio.ValidateSize(audio.FileSize(inputPath), r.maxBytes); err != nil {
		return "", err
	}
	if err := audio.SniffAudio(inputPath); err != nil {
		return "", err
	}

	convertedPath, err := r.converter.Convert(ctx, inputPath)
	if err != nil {
		return "", err
	}
	defer audio.Cleanup(convertedPath)

	result, attempts, err := r.transcriber.Transcribe(ctx, convertedPath)
	if err != nil {
		return "", err
	}

	// Some responses omit the duration; fall back to the platform's
	// metadata, then to probing the file.
	if result.Duration == 0 {
		if job.DurationHint > 0 {
			result.Duration = float64(job.DurationHint)
		} else {
			result.Duration = audio.Duration(ctx, convertedPath)
		}
	}

	logging.L_elapsed(start, "pipeline: job complete",
		"userID", job.UserID,
		"language", result.Language,
		"attempts", attempts,
		"chars", len(result.Text),
	)

	return reply.Build(result, time.Since(start)), nil
}
