package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xiaoyibao/medassist/internal/service"
	tg "github.com/xiaoyibao/medassist/internal/telegram"
)

// handlePhoto ingests a photo and dispatches it to the image channel. The
// caption is the optional question; a leading "#类型" token selects the
// analysis category, otherwise the configured default applies.
func (h *Handler) handlePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	chatID := msg.Chat.ID

	// Highest resolution variant is last.
	photo := msg.Photo[len(msg.Photo)-1]
	data, name, err := tg.DownloadFile(ctx, b, photo.FileID)
	if err != nil {
		slog.Error("photo download failed", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "下载图片失败，请重试。"})
		return
	}

	artifact, err := h.ingestor.Save(data, name)
	if err != nil {
		slog.Error("photo ingest failed", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "保存图片失败，请重试。"})
		return
	}

	requested, question := parseCaption(msg.Caption)
	category, _, ok := h.resolver.Resolve(requested)
	if !ok {
		// Let dispatch surface the unsupported category as a turn.
		category = requested
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	turns := h.chat.AnalyzeImage(ctx, owner(chatID), artifact, category, question)
	stopTyping()

	h.replyLastAssistant(ctx, b, chatID, turns)
}

// handleDocument ingests a PDF report, replacing the report channel's
// history with a fresh summary.
func (h *Handler) handleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	chatID := msg.Chat.ID

	docTypes := h.cfg.SystemConfig.SupportedDocTypes
	if len(docTypes) == 0 {
		docTypes = []string{"pdf"}
	}
	if !service.AllowedExtension(msg.Document.FileName, docTypes) {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "不支持的报告格式，请上传 PDF 文件。"})
		return
	}

	data, name, err := tg.DownloadFile(ctx, b, msg.Document.FileID)
	if err != nil {
		slog.Error("document download failed", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "下载报告失败，请重试。"})
		return
	}
	if msg.Document.FileName != "" {
		name = msg.Document.FileName
	}

	artifact, err := h.ingestor.Save(data, name)
	if err != nil {
		slog.Error("document ingest failed", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "保存报告失败，请重试。"})
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	turns := h.chat.AnalyzeReport(ctx, owner(chatID), artifact, "")
	stopTyping()

	h.replyLastAssistant(ctx, b, chatID, turns)
}

// parseCaption splits an optional leading "#category" token off a photo
// caption, returning the category and the remaining question text.
func parseCaption(caption string) (category, question string) {
	caption = strings.TrimSpace(caption)
	if !strings.HasPrefix(caption, "#") {
		return "", caption
	}
	rest := caption[1:]
	if idx := strings.IndexAny(rest, " \n"); idx >= 0 {
		return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+1:])
	}
	return strings.TrimSpace(rest), ""
}
