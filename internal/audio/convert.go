package audio

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	. "voxgram/internal/logging"
)

// Canonical encoding parameters. Mono 16 kHz MP3 at a voice bitrate is
// what the Whisper endpoint performs best on.
const (
	targetSampleRate = 16000
	targetBitrate    = "64k"
	targetExt        = "mp3"

	// convertTimeout bounds one ffmpeg invocation so a pathological
	// input cannot stall the job past its deadline.
	convertTimeout = 2 * time.Minute
)

// Converter normalizes arbitrary input audio to the canonical encoding
// by invoking ffmpeg as an external process.
type Converter struct {
	tempDir string
}

// NewConverter creates a Converter writing scratch output under tempDir.
func NewConverter(tempDir string) *Converter {
	return &Converter{tempDir: tempDir}
}

// Available reports whether ffmpeg is on PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Convert transcodes inputPath to a new mono 16 kHz MP3 file and returns
// its path. The caller owns cleanup of both input and output. Any
// non-zero ffmpeg exit is surfaced as a ConversionError.
func (c *Converter) Convert(ctx context.Context, inputPath string) (string, error) {
	outputPath, err := TempFile(c.tempDir, targetExt)
	if err != nil {
		return "", &ConversionError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-ac", "1",
		"-ar", strconv.Itoa(targetSampleRate),
		"-b:a", targetBitrate,
		"-vn",
		"-y",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		Cleanup(outputPath)
		detail := tail(string(output), 400)
		L_error("audio: ffmpeg failed", "error", err, "output", detail)
		if ctx.Err() == context.DeadlineExceeded {
			return "", &ConversionError{Detail: "conversion timed out", Err: ctx.Err()}
		}
		return "", &ConversionError{Detail: detail, Err: err}
	}

	if FileSize(outputPath) == 0 {
		Cleanup(outputPath)
		return "", &ConversionError{Detail: "ffmpeg produced no output"}
	}

	L_elapsed(start, "audio: converted",
		"in", FileSize(inputPath),
		"out", FileSize(outputPath),
	)
	return outputPath, nil
}

// Duration probes the audio duration in seconds via ffprobe. Returns 0
// when the duration cannot be determined; never fatal to the job.
func Duration(ctx context.Context, path string) float64 {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		L_debug("audio: ffprobe failed", "path", path, "error", err)
		return 0
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

// tail returns the last n bytes of s, for keeping logged ffmpeg output short.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
