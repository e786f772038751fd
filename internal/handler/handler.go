package handler

import (
	"strconv"

	"github.com/go-telegram/bot"

	"github.com/xiaoyibao/medassist/internal/config"
	"github.com/xiaoyibao/medassist/internal/service"
)

// Handler holds all dependencies needed by the Telegram front-end.
type Handler struct {
	bot      *bot.Bot
	cfg      *config.AppConfig
	chat     *service.ChatService
	resolver *service.PromptResolver
	ingestor *service.Ingestor
	files    *service.FileManager
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Cfg      *config.AppConfig
	Chat     *service.ChatService
	Resolver *service.PromptResolver
	Ingestor *service.Ingestor
	Files    *service.FileManager
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		cfg:      deps.Cfg,
		chat:     deps.Chat,
		resolver: deps.Resolver,
		ingestor: deps.Ingestor,
		files:    deps.Files,
	}
}

// owner keys the per-chat sessions; each Telegram chat gets its own three
// channels, independent from any web client.
func owner(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
