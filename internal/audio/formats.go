// Package audio prepares inbound media for transcription: temp file
// management, format and size validation, and ffmpeg conversion to the
// canonical encoding (MP3, mono, 16 kHz).
package audio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	. "voxgram/internal/logging"
)

// supportedFormats is the set of input container/codec extensions the
// pipeline accepts. Everything gets normalized to MP3 before upload.
var supportedFormats = map[string]bool{
	"mp3": true, "mp4": true, "mpeg": true, "mpga": true, "m4a": true,
	"wav": true, "webm": true, "ogg": true, "oga": true, "flac": true,
	"aac": true, "opus": true, "wma": true, "amr": true,
}

// AcceptedFormats is the user-facing list of accepted formats.
var AcceptedFormats = []string{"MP3", "OGG", "WAV", "M4A", "FLAC", "AAC", "OPUS", "WebM"}

// Ext extracts the lowercase extension from a file name, stripped of the
// dot and of anything that is not alphanumeric.
func Ext(name string) string {
	base := filepath.Base(name)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	var b strings.Builder
	for _, r := range strings.ToLower(ext) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateFormat checks the extension against the accepted set.
func ValidateFormat(ext string) error {
	if !supportedFormats[ext] {
		return &UnsupportedFormatError{Ext: ext}
	}
	return nil
}

// ValidateSize fails fast when the reported payload size is over the
// limit, before any bytes are downloaded.
func ValidateSize(size, limit int64) error {
	if size > limit {
		return &SizeExceededError{Size: size, Limit: limit}
	}
	return nil
}

// SniffAudio verifies that a downloaded file really contains audio (or a
// video container, which carries an audio track). Telegram reports MIME
// types supplied by the client, so the bytes are checked directly.
func SniffAudio(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return &InvalidAudioError{MimeType: "unreadable"}
	}

	mime := mtype.String()
	if strings.HasPrefix(mime, "audio/") || strings.HasPrefix(mime, "video/") {
		return nil
	}
	// application/ogg is how OGG/Opus voice notes are detected.
	if mime == "application/ogg" {
		return nil
	}

	L_warn("audio: payload failed sniff", "mime", mime, "path", path)
	return &InvalidAudioError{MimeType: mime}
}

// FileSize returns the size of a file on disk, 0 when unknown.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
