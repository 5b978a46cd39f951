package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxgram/internal/audio"
	"voxgram/internal/auth"
	"voxgram/internal/config"
	. "voxgram/internal/logging"
	"voxgram/internal/stt"
	"voxgram/internal/telegram"
)

const version = "0.1.0"

// transcriptionsPerMinute bounds how many audios one user may submit.
const transcriptionsPerMinute = 5

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("voxgram %s\n", version)
		return
	}

	// Config must load before logging so LOG_LEVEL can take effect, but
	// load failures still need a logger. Initialize with defaults on error.
	cfg, cfgErr := config.Load()

	level := LevelInfo
	if cfg != nil {
		level = ParseLevel(cfg.LogLevel)
	}
	Init(&Config{
		Level:      level,
		ShowCaller: true,
	})

	L_info("voxgram %s starting", version)

	if cfgErr != nil {
		L_fatal("failed to load config: %v", cfgErr)
	}
	L_debug("config loaded",
		"maxAudioMB", cfg.MaxAudioMB,
		"temperature", cfg.Temperature,
		"language", cfg.Language,
		"jobTimeout", cfg.JobTimeout,
	)

	if !audio.Available() {
		L_warn("ffmpeg not found on PATH; audio conversion will fail until it is installed")
	}

	provider, err := stt.NewOpenAIProvider(stt.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Temperature: cfg.Temperature,
		Language:    cfg.Language,
	})
	if err != nil {
		L_fatal("failed to create transcription provider: %v", err)
	}
	defer provider.Close()
	L_info("transcription provider ready", "provider", provider.Name())

	bot, err := telegram.New(telegram.Options{
		Token:       cfg.BotToken,
		Auth:        auth.New(cfg.BotPassword),
		Limiter:     auth.NewRateLimiter(transcriptionsPerMinute, time.Minute),
		Converter:   audio.NewConverter(cfg.TempDir),
		Transcriber: stt.NewClient(provider),
		MaxBytes:    cfg.MaxAudioBytes(),
		TempDir:     cfg.TempDir,
		JobTimeout:  cfg.JobTimeout,
	})
	if err != nil {
		L_fatal("failed to start telegram bot: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		L_info("received %s, shutting down", s)
		bot.Stop()
	}()

	L_info("voxgram ready")
	bot.Start()

	L_info("voxgram stopped")
}
