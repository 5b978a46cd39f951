package audio

import (
	"fmt"
	"strings"
)

// SizeExceededError reports a payload over the configured limit.
type SizeExceededError struct {
	Size  int64
	Limit int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("audio size %d exceeds limit %d", e.Size, e.Limit)
}

// UnsupportedFormatError reports an input container/codec outside the
// accepted set.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format %q (accepted: %s)", e.Ext, strings.Join(AcceptedFormats, ", "))
}

// ConversionError reports a failed ffmpeg invocation or malformed output.
type ConversionError struct {
	Detail string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("audio conversion failed: %s", e.Detail)
	}
	return fmt.Sprintf("audio conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// InvalidAudioError reports a downloaded payload that is not actually audio.
type InvalidAudioError struct {
	MimeType string
}

func (e *InvalidAudioError) Error() string {
	return fmt.Sprintf("payload is not audio (detected %s)", e.MimeType)
}
