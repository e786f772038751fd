package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xiaoyibao/medassist/internal/domain"
)

const startText = `欢迎使用医疗助手。

• 直接发送文字进行普通对话
• 发送图片进行影像分析（在说明文字开头用 #类型 选择图片类型，例如 #病理）
• 发送 PDF 报告获取结构化总结，然后用 /ask 提问
• /img <问题> 针对最近上传的图片继续提问
• /new [general|image|report] 清除对话记录
• /files 查看已上传文件，/clearcache 清理所有缓存`

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   startText,
	})
}

// handleNew clears one channel, or all three when no argument is given.
func (h *Handler) handleNew(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/new"))

	switch {
	case arg == "":
		for _, ch := range domain.Channels {
			h.chat.Clear(owner(chatID), ch)
		}
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "所有对话记录已清除。"})
	case domain.ValidChannel(domain.Channel(arg)):
		h.chat.Clear(owner(chatID), domain.Channel(arg))
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "对话记录已清除：" + arg})
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "未知的频道，可选：general、image、report"})
	}
}
