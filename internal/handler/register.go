package handler

import (
	"github.com/go-telegram/bot"
)

// Register registers all command handlers on the bot instance. Non-command
// messages (text, photos, documents) are routed through HandleUpdate, which
// main wires as the default handler.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/new", bot.MatchTypePrefix, h.handleNew)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/img", bot.MatchTypePrefix, h.handleImageQuestion)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ask", bot.MatchTypePrefix, h.handleReportQuestion)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/files", bot.MatchTypePrefix, h.handleFiles)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clearcache", bot.MatchTypePrefix, h.handleClearCache)
}
