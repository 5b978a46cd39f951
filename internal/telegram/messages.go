package telegram

// User-facing texts, centralized so wording stays consistent across
// handlers. Failure messages are deliberately generic: they never hint
// at which check failed or at any internal detail.
const (
	msgWelcome = "🎙️ Audio Transcription Bot\n\n" +
		"Send a voice message or audio file and I'll transcribe it to text.\n\n" +
		"📌 Language: auto-detected\n" +
		"🎯 Precision: maximum (temperature 0)\n\n" +
		"Just send the audio! 🎧"

	msgAuthRequired = "🔒 Access protected\n\n" +
		"Use /start YOUR_PASSWORD to authenticate.\n\n" +
		"This bot is for personal use and requires a password."

	msgAuthSuccess = "✅ Authenticated!\n\n" +
		"🎙️ Now just send a voice message or audio file.\n\n" +
		"Use /help for more information."

	msgAuthFailed = "❌ Authentication failed.\n\n" +
		"Try again with /start YOUR_PASSWORD."

	msgHelp = "📖 How to use this bot\n\n" +
		"Commands:\n" +
		"  /start [password] — authenticate\n" +
		"  /help — this message\n\n" +
		"Transcription:\n" +
		"  1. Send a voice message or audio file\n" +
		"  2. Wait for processing\n" +
		"  3. Receive the transcription\n\n" +
		"Accepted formats:\n" +
		"  MP3, OGG, WAV, M4A, FLAC, AAC, OPUS, WebM\n\n" +
		"Precision:\n" +
		"  🎯 Temperature 0, no prompt bias\n" +
		"  🌍 Automatic language detection"

	msgProcessing = "🎙️ Processing audio..."

	msgBusy = "⏳ I'm still working on your previous audio.\n" +
		"Send the next one once it's done."

	msgRateLimited = "⏳ Easy there!\n\n" +
		"You've hit the limit of audios per minute.\n" +
		"Wait a moment before sending the next one."
)
