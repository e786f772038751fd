package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xiaoyibao/medassist/internal/domain"
	tg "github.com/xiaoyibao/medassist/internal/telegram"
)

// HandleUpdate routes non-command messages: photos to the image channel,
// PDF documents to the report channel, plain text to general chat.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	switch {
	case len(msg.Photo) > 0:
		h.handlePhoto(ctx, b, update)
	case msg.Document != nil:
		h.handleDocument(ctx, b, update)
	case msg.Text != "" && !strings.HasPrefix(msg.Text, "/"):
		h.handleText(ctx, b, update)
	}
}

func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	stopTyping := tg.StartTyping(ctx, b, chatID)
	turns := h.chat.Chat(ctx, owner(chatID), update.Message.Text)
	stopTyping()

	h.replyLastAssistant(ctx, b, chatID, turns)
}

// handleImageQuestion answers /img <question> against the image already on
// the session; the artifact is re-sent by the dispatch layer.
func (h *Handler) handleImageQuestion(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	question := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/img"))
	if question == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "用法：/img <问题>"})
		return
	}

	category, _, ok := h.resolver.Resolve("")
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "尚未配置图片分析类型。"})
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	turns := h.chat.AnalyzeImage(ctx, owner(chatID), nil, category, question)
	stopTyping()

	h.replyLastAssistant(ctx, b, chatID, turns)
}

// handleReportQuestion answers /ask <question> against the report cache on
// the session.
func (h *Handler) handleReportQuestion(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	question := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/ask"))
	if question == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "用法：/ask <问题>"})
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	turns := h.chat.AnalyzeReport(ctx, owner(chatID), nil, question)
	stopTyping()

	h.replyLastAssistant(ctx, b, chatID, turns)
}

func (h *Handler) replyLastAssistant(ctx context.Context, b *bot.Bot, chatID int64, turns []domain.Turn) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleAssistant {
			tg.SendLongMessage(ctx, b, chatID, turns[i].Content)
			return
		}
	}
}
