package pipeline

import (
	"errors"
	"strings"

	"voxgram/internal/audio"
	"voxgram/internal/reply"
	"voxgram/internal/stt"
)

// UserMessage maps any pipeline error to the single user-facing reply
// for that job. Internal detail stays in the logs; the user gets a
// short explanation and, where useful, what to do about it.
func UserMessage(err error) string {
	var sizeErr *audio.SizeExceededError
	if errors.As(err, &sizeErr) {
		return "❌ File too large (" + reply.FormatSize(sizeErr.Size) + ").\n" +
			"📏 Limit: " + reply.FormatSize(sizeErr.Limit) + ".\n" +
			"💡 Try compressing the audio or sending a shorter clip."
	}

	var formatErr *audio.UnsupportedFormatError
	if errors.As(err, &formatErr) {
		return "❌ Format \"." + formatErr.Ext + "\" is not supported.\n" +
			"📋 Accepted formats: " + strings.Join(audio.AcceptedFormats, ", ")
	}

	var invalidErr *audio.InvalidAudioError
	if errors.As(err, &invalidErr) {
		return "❌ That file doesn't look like audio, or it's corrupted.\n" +
			"💡 Try sending it again."
	}

	var convErr *audio.ConversionError
	if errors.As(err, &convErr) {
		return "❌ Couldn't process the audio.\n" +
			"💡 The format may be unsupported. Try MP3, M4A or WAV."
	}

	var exhausted *stt.ExhaustedError
	if errors.As(err, &exhausted) {
		return "❌ Transcription failed after several attempts.\n" +
			"💡 Try again in a few moments."
	}

	var permanent *stt.PermanentError
	if errors.As(err, &permanent) {
		return "❌ The transcription service rejected the request.\n" +
			"💡 Try again later."
	}

	return "❌ Something went wrong while processing the audio.\n" +
		"💡 Try again in a few moments."
}
