// Package telegram provides the Telegram adapter for voxgram: the bot,
// its command handlers, and the per-message routing into the
// transcription pipeline.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"voxgram/internal/audio"
	"voxgram/internal/auth"
	. "voxgram/internal/logging"
	"voxgram/internal/pipeline"
	"voxgram/internal/reply"
)

// telegramMessageLimit is Telegram's maximum message length. Replies
// over the limit are split into chunks slightly under it.
const (
	telegramMessageLimit = 4096
	replyChunkSize       = 4000
)

// Options configures the bot and the pipeline behind it.
type Options struct {
	Token       string
	Auth        *auth.Authenticator
	Limiter     *auth.RateLimiter
	Converter   pipeline.Converter
	Transcriber pipeline.Transcriber
	MaxBytes    int64
	TempDir     string
	JobTimeout  time.Duration
}

// Bot is the Telegram bot and message router.
type Bot struct {
	bot     *tele.Bot
	auth    *auth.Authenticator
	limiter *auth.RateLimiter
	runner  *pipeline.Runner

	// inflight tracks users with a job currently processing. One job
	// per user at a time; a second audio is rejected, not queued.
	inflight sync.Map // userID (int64) -> struct{}
}

// New creates the Telegram bot and registers its handlers.
func New(opts Options) (*Bot, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("telegram bot token not configured")
	}

	pref := tele.Settings{
		Token:  opts.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			L_error("telegram: unhandled error", "error", err)
		},
	}

	tbot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	L_debug("telegram: bot created", "username", tbot.Me.Username, "id", tbot.Me.ID)

	b := &Bot{
		bot:     tbot,
		auth:    opts.Auth,
		limiter: opts.Limiter,
	}

	b.runner = pipeline.NewRunner(pipeline.Config{
		Fetcher:     &fileFetcher{bot: tbot},
		Converter:   opts.Converter,
		Transcriber: opts.Transcriber,
		MaxBytes:    opts.MaxBytes,
		TempDir:     opts.TempDir,
		Timeout:     opts.JobTimeout,
	})

	b.setupHandlers()
	L_debug("telegram: handlers registered")

	return b, nil
}

// setupHandlers registers command and media handlers.
func (b *Bot) setupHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/help", b.handleHelp)

	b.bot.Handle(tele.OnVoice, b.handleVoice)
	b.bot.Handle(tele.OnAudio, b.handleAudio)
	b.bot.Handle(tele.OnDocument, b.handleDocument)

	// Any other input from an unauthenticated user gets the auth
	// prompt; authenticated users get pointed at /help.
	b.bot.Handle(tele.OnText, b.handleText)
}

// handleStart authenticates the user when a password argument is
// supplied, or reports current state when it is not.
func (b *Bot) handleStart(c tele.Context) error {
	if b.skipChat(c) {
		return nil
	}
	userID := c.Sender().ID
	L_info("telegram: /start", "userID", userID)

	if b.auth.IsAuthenticated(userID) {
		return c.Send(msgWelcome)
	}

	password := strings.TrimSpace(c.Message().Payload)
	if password == "" {
		return c.Send(msgAuthRequired)
	}

	err := b.auth.Authenticate(userID, password)
	if err == nil {
		return c.Send(msgAuthSuccess)
	}

	var locked *auth.LockedOutError
	if errors.As(err, &locked) {
		return c.Send("🚫 Too many failed attempts.\n" +
			"Try again in " + reply.FormatDuration(locked.Remaining.Seconds()) + ".")
	}

	// Wrong and missing passwords get the same generic failure.
	return c.Send(msgAuthFailed)
}

// handleHelp returns static usage text. No authentication required and
// no state change.
func (b *Bot) handleHelp(c tele.Context) error {
	if b.skipChat(c) {
		return nil
	}
	return c.Send(msgHelp)
}

// handleText rejects non-audio input with guidance.
func (b *Bot) handleText(c tele.Context) error {
	if b.skipChat(c) {
		return nil
	}
	if !b.auth.IsAuthenticated(c.Sender().ID) {
		return c.Send(msgAuthRequired)
	}
	return c.Send("Send me a voice message or audio file to transcribe. See /help.")
}

// handleVoice processes a Telegram voice note (always OGG/Opus, no
// file name).
func (b *Bot) handleVoice(c tele.Context) error {
	voice := c.Message().Voice
	if voice == nil {
		return nil
	}
	return b.processAudio(c, pipeline.Job{
		UserID:       c.Sender().ID,
		FileID:       voice.FileID,
		Size:         voice.FileSize,
		DurationHint: voice.Duration,
	})
}

// handleAudio processes an audio file sent as media.
func (b *Bot) handleAudio(c tele.Context) error {
	a := c.Message().Audio
	if a == nil {
		return nil
	}
	return b.processAudio(c, pipeline.Job{
		UserID:       c.Sender().ID,
		FileID:       a.FileID,
		FileName:     a.FileName,
		Size:         a.FileSize,
		DurationHint: a.Duration,
	})
}

// handleDocument processes documents that look like audio or video
// containers; everything else is rejected.
func (b *Bot) handleDocument(c tele.Context) error {
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	if !strings.HasPrefix(doc.MIME, "audio/") && !strings.HasPrefix(doc.MIME, "video/") {
		if b.skipChat(c) {
			return nil
		}
		if !b.auth.IsAuthenticated(c.Sender().ID) {
			return c.Send(msgAuthRequired)
		}
		return c.Send(pipeline.UserMessage(b.rejectFormat(doc.FileName)))
	}
	return b.processAudio(c, pipeline.Job{
		UserID:   c.Sender().ID,
		FileID:   doc.FileID,
		FileName: doc.FileName,
		Size:     doc.FileSize,
	})
}

// processAudio gates and runs one transcription job, then delivers the
// single reply for it. Stage failures abort early; the user always gets
// exactly one outcome message.
func (b *Bot) processAudio(c tele.Context, job pipeline.Job) error {
	if b.skipChat(c) {
		return nil
	}
	userID := job.UserID

	if !b.auth.IsAuthenticated(userID) {
		return c.Send(msgAuthRequired)
	}

	if !b.limiter.Allow(userID) {
		L_warn("telegram: rate limited", "userID", userID)
		return c.Send(msgRateLimited)
	}

	if _, busy := b.inflight.LoadOrStore(userID, struct{}{}); busy {
		return c.Send(msgBusy)
	}
	defer b.inflight.Delete(userID)

	L_info("telegram: audio received",
		"userID", userID,
		"size", reply.FormatSize(job.Size),
		"file", job.FileName,
	)

	_ = c.Notify(tele.UploadingAudio)
	notice, noticeErr := b.bot.Send(c.Chat(), msgProcessing)

	out, err := b.runner.Run(context.Background(), job)
	if err != nil {
		L_error("telegram: job failed", "userID", userID, "error", err)
		out = pipeline.UserMessage(err)
	}

	return b.deliver(c, notice, noticeErr == nil, out)
}

// deliver replaces the processing notice with the outcome, splitting
// replies that exceed Telegram's message limit.
func (b *Bot) deliver(c tele.Context, notice *tele.Message, haveNotice bool, text string) error {
	chunks := reply.Split(text, replyChunkSize)

	if haveNotice {
		if _, err := b.bot.Edit(notice, chunks[0]); err != nil {
			L_debug("telegram: edit failed, sending fresh message", "error", err)
			if err := c.Send(chunks[0]); err != nil {
				return err
			}
		}
	} else {
		if err := c.Send(chunks[0]); err != nil {
			return err
		}
	}

	for _, chunk := range chunks[1:] {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

// skipChat ignores group chats: the bot is single-user by design.
func (b *Bot) skipChat(c tele.Context) bool {
	if c.Chat() == nil {
		return true
	}
	return c.Chat().Type != tele.ChatPrivate
}

// rejectFormat builds the unsupported-format error for a document that
// is not an audio container.
func (b *Bot) rejectFormat(fileName string) error {
	ext := audio.Ext(fileName)
	if ext == "" {
		ext = "bin"
	}
	return &audio.UnsupportedFormatError{Ext: ext}
}

// Start begins long polling. Blocks until Stop is called.
func (b *Bot) Start() {
	L_info("telegram: starting bot", "username", b.bot.Me.Username)
	b.bot.Start()
}

// Stop stops the poller.
func (b *Bot) Stop() {
	L_info("telegram: stopping bot")
	b.bot.Stop()
}
