package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xiaoyibao/medassist/internal/config"
)

// SendLongMessage renders markdown to Telegram HTML, splits it into
// message-sized parts and sends them. Falls back to plain text when the
// HTML variant is rejected.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) error {
	rendered := RenderHTML(text)
	parts := SplitMessage(rendered, config.MaxTelegramMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeHTML,
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			slog.Warn("html send failed, falling back to plain text", "error", err)
			plain := SplitMessage(text, config.MaxTelegramMessageLen)
			if i < len(plain) {
				params.Text = plain[i]
			}
			params.ParseMode = ""
			if _, err := b.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

// StartTyping sends a typing action every 4 seconds until the returned
// cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.SendChatAction(ctx, &bot.SendChatActionParams{
					ChatID: chatID,
					Action: models.ChatActionTyping,
				})
			}
		}
	}()
	return cancel
}
