// Package reply renders transcription results into user-facing text.
// Everything here is a pure function: same input, same output, no I/O.
package reply

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"voxgram/internal/stt"
)

// languageNames maps ISO 639-1 codes from Whisper to readable labels.
var languageNames = map[string]string{
	"pt": "🇧🇷 Portuguese",
	"en": "🇺🇸 English",
	"es": "🇪🇸 Spanish",
	"fr": "🇫🇷 French",
	"de": "🇩🇪 German",
	"it": "🇮🇹 Italian",
	"ja": "🇯🇵 Japanese",
	"ko": "🇰🇷 Korean",
	"zh": "🇨🇳 Chinese",
	"ru": "🇷🇺 Russian",
	"ar": "🇸🇦 Arabic",
	"hi": "🇮🇳 Hindi",
	"nl": "🇳🇱 Dutch",
	"pl": "🇵🇱 Polish",
	"tr": "🇹🇷 Turkish",
	"uk": "🇺🇦 Ukrainian",
	"sv": "🇸🇪 Swedish",
	"da": "🇩🇰 Danish",
	"fi": "🇫🇮 Finnish",
	"no": "🇳🇴 Norwegian",
}

// LanguageName converts a language code to a readable label. Unmapped
// codes come back uppercased so the user still sees something.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	if code == "" {
		return "unknown"
	}
	return strings.ToUpper(code)
}

// FormatDuration renders seconds as "45s", "2min 30s" or "1h 1min 1s".
func FormatDuration(seconds float64) string {
	total := int(seconds)
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}

	minutes, secs := total/60, total%60
	if minutes < 60 {
		if secs == 0 {
			return fmt.Sprintf("%dmin", minutes)
		}
		return fmt.Sprintf("%dmin %ds", minutes, secs)
	}

	hours, mins := minutes/60, minutes%60
	parts := []string{fmt.Sprintf("%dh", hours)}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", mins))
	}
	if secs > 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}

// FormatSize renders a byte count as "512B", "512.0KB" or "2.5MB".
func FormatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%dB", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
	}
}

const separator = "─────────────────"

// Build renders the final reply: transcription body, detected language,
// audio duration and end-to-end processing time.
func Build(result *stt.Result, elapsed time.Duration) string {
	lines := []string{
		"📝 Transcription",
		separator,
		"",
		result.Text,
		"",
		separator,
		"🌐 Language: " + LanguageName(result.Language),
	}

	if result.Duration > 0 {
		lines = append(lines, "⏱️ Duration: "+FormatDuration(result.Duration))
	}
	lines = append(lines, "⚡ Processed in: "+FormatDuration(elapsed.Seconds()))

	return strings.Join(lines, "\n")
}

// Split breaks text into chunks of at most max bytes, preferring to cut
// at newlines, then spaces. Telegram rejects messages over 4096 chars.
func Split(text string, max int) []string {
	if max <= 0 || len(text) <= max {
		return []string{text}
	}

	var chunks []string
	for len(text) > max {
		cut := strings.LastIndex(text[:max], "\n")
		if cut <= 0 {
			cut = strings.LastIndex(text[:max], " ")
		}
		if cut <= 0 {
			// No break point: cut mid-text, but never mid-rune. Scripts
			// without spaces (Chinese, Japanese, Thai) hit this path.
			cut = max
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], " \n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
