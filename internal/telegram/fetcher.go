package telegram

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// fileFetcher downloads Telegram attachments via the Bot API. It
// satisfies pipeline.Fetcher so the pipeline stays transport-agnostic.
type fileFetcher struct {
	bot *tele.Bot
}

func (f *fileFetcher) Fetch(ctx context.Context, fileID, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file := tele.File{FileID: fileID}
	if err := f.bot.Download(&file, destPath); err != nil {
		return fmt.Errorf("telegram download: %w", err)
	}
	return nil
}
