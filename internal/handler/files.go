package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleFiles lists the remote files, or deletes one when a name is given:
// /files            — list
// /files rm <name>  — delete by display name
func (h *Handler) handleFiles(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/files"))

	if name, ok := strings.CutPrefix(arg, "rm "); ok {
		status := h.files.DeleteByDisplayName(ctx, strings.TrimSpace(name))
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: status})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   h.files.ListFormatted(ctx),
	})
}

func (h *Handler) handleClearCache(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   h.files.ClearCaches(ctx),
	})
}
