package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xiaoyibao/medassist/internal/config"
	"github.com/xiaoyibao/medassist/internal/domain"
)

const (
	userQuestionPrefix = "用户问题："

	// System instruction attached to the document cache of an uploaded report.
	reportCacheInstruction = "你是一位专业的医疗报告分析专家，请基于上传的报告内容回答问题。"

	// Fallbacks when the corresponding prompts are absent from the document.
	defaultReportAnalysisPrompt = "请仔细阅读这份医疗报告，用通俗易懂的语言给出一份简明的结构化总结，包括主要发现、异常指标和需要关注的事项。"
	defaultReportFollowup       = "基于报告内容回答以下问题。如果问题超出报告范围，请明确说明。\n\n对话历史：\n%s\n\n用户新问题：%s"

	msgNoImage         = "请先上传图片"
	msgNoReport        = "请先上传报告再进行对话"
	msgEmptyResponse   = "模型没有返回响应，请重试。"
	msgChatErrFormat   = "对话过程中发生错误：%v，请重试。"
	msgImageErrFormat  = "分析图片时发生错误: %v"
	msgReportErrFormat = "分析报告时发生错误: %v"
	msgUnsupportedType = "不支持的图片类型: %s"
)

// ChatService is the dispatch layer: it decides which remote call to make,
// with which prompt, and threads conversational state and document caches
// across turns. Every gateway or file-system failure is converted into an
// assistant turn; no error from here crosses into a front-end as a crash.
type ChatService struct {
	cfg      *config.AppConfig
	gateway  Gateway
	sessions *SessionStore
}

func NewChatService(cfg *config.AppConfig, gateway Gateway, sessions *SessionStore) *ChatService {
	return &ChatService{cfg: cfg, gateway: gateway, sessions: sessions}
}

// History returns the current turn list for an owner's channel.
func (c *ChatService) History(owner string, channel domain.Channel) []domain.Turn {
	return c.sessions.Snapshot(owner, channel)
}

// Clear resets an owner's channel to its empty state.
func (c *ChatService) Clear(owner string, channel domain.Channel) {
	c.sessions.Clear(owner, channel)
}

// Chat handles a general chat turn. Empty input is a no-op. On success the
// user turn and the assistant turn are appended together; on failure the
// user turn is appended together with an error turn, so the session is
// never left half-updated.
func (c *ChatService) Chat(ctx context.Context, owner, message string) []domain.Turn {
	message = strings.TrimSpace(message)
	if message == "" {
		return c.sessions.Snapshot(owner, domain.ChannelGeneral)
	}

	prompt := c.cfg.Prompts.Chat + "\n\n" + userQuestionPrefix + message
	text, err := c.gateway.Generate(ctx, config.PurposeChat, []Part{TextPart(prompt)})

	c.sessions.Update(owner, domain.ChannelGeneral, func(s *domain.Session) {
		s.Append(domain.RoleUser, message)
		if err != nil {
			slog.Error("chat generate failed", "owner", owner, "error", err)
			s.Append(domain.RoleAssistant, gatewayErrorMessage(msgChatErrFormat, err))
			return
		}
		s.Append(domain.RoleAssistant, text)
	})
	return c.sessions.Snapshot(owner, domain.ChannelGeneral)
}

// AnalyzeImage handles an image turn. A nil artifact means "use the image
// already on the session" (follow-up question). An unknown category appends
// exactly one assistant turn and performs zero gateway calls. With no
// question the category's instruction drives a first analysis and only the
// assistant turn is appended; with a question both turns are appended.
func (c *ChatService) AnalyzeImage(ctx context.Context, owner string, artifact *domain.UploadedArtifact, category, question string) []domain.Turn {
	question = strings.TrimSpace(question)

	if artifact == nil {
		artifact = c.sessions.Artifact(owner, domain.ChannelImage)
	}
	if artifact == nil {
		c.appendAssistant(owner, domain.ChannelImage, msgNoImage)
		return c.sessions.Snapshot(owner, domain.ChannelImage)
	}

	tmpl, ok := c.cfg.PromptTemplate(category)
	if !ok {
		slog.Warn("image dispatch rejected", "owner", owner, "category", category, "error", domain.ErrUnsupportedCategory)
		c.appendAssistant(owner, domain.ChannelImage, fmt.Sprintf(msgUnsupportedType, category))
		return c.sessions.Snapshot(owner, domain.ChannelImage)
	}

	text, err := c.analyzeImageRemote(ctx, artifact, tmpl, question)

	c.sessions.Update(owner, domain.ChannelImage, func(s *domain.Session) {
		s.Artifact = artifact
		if err != nil {
			slog.Error("image analysis failed", "owner", owner, "category", category, "error", err)
			if question != "" {
				s.Append(domain.RoleUser, question)
			}
			s.Append(domain.RoleAssistant, gatewayErrorMessage(msgImageErrFormat, err))
			return
		}
		if question != "" {
			s.Append(domain.RoleUser, question)
		}
		s.Append(domain.RoleAssistant, text)
	})
	return c.sessions.Snapshot(owner, domain.ChannelImage)
}

func (c *ChatService) analyzeImageRemote(ctx context.Context, artifact *domain.UploadedArtifact, tmpl config.PromptTemplate, question string) (string, error) {
	file, err := c.gateway.Upload(ctx, artifact.Path, tmpl.MIMEType)
	if err != nil {
		return "", err
	}
	instruction := tmpl.SystemPrompt
	if question != "" {
		instruction = question
	}
	return c.gateway.Generate(ctx, config.PurposeVision, []Part{FilePart(file), TextPart(instruction)})
}

// AnalyzeReport handles a report turn. A new artifact replaces the prior
// history with a single fresh summary turn and installs a new document
// cache on the session. A question against an existing cache is answered
// with the full prior transcript embedded in the prompt. With neither, the
// user is asked to upload a report first.
func (c *ChatService) AnalyzeReport(ctx context.Context, owner string, artifact *domain.UploadedArtifact, question string) []domain.Turn {
	question = strings.TrimSpace(question)

	if artifact != nil {
		cacheName, summary, err := c.analyzeNewReport(ctx, artifact)
		c.sessions.Update(owner, domain.ChannelReport, func(s *domain.Session) {
			if err != nil {
				slog.Error("report analysis failed", "owner", owner, "error", err)
				s.Append(domain.RoleAssistant, gatewayErrorMessage(msgReportErrFormat, err))
				return
			}
			s.Clear()
			s.CacheName = cacheName
			s.Append(domain.RoleAssistant, summary)
		})
		return c.sessions.Snapshot(owner, domain.ChannelReport)
	}

	cacheName := c.sessions.CacheName(owner, domain.ChannelReport)
	if question == "" || cacheName == "" {
		slog.Debug("report dispatch rejected", "owner", owner, "error", domain.ErrNoReport)
		c.appendAssistant(owner, domain.ChannelReport, msgNoReport)
		return c.sessions.Snapshot(owner, domain.ChannelReport)
	}

	prompt := c.followupPrompt(c.sessions.Snapshot(owner, domain.ChannelReport), question)
	text, err := c.gateway.GenerateFromCache(ctx, cacheName, prompt)

	c.sessions.Update(owner, domain.ChannelReport, func(s *domain.Session) {
		s.Append(domain.RoleUser, question)
		if err != nil {
			slog.Error("report followup failed", "owner", owner, "error", err)
			s.Append(domain.RoleAssistant, gatewayErrorMessage(msgReportErrFormat, err))
			return
		}
		s.Append(domain.RoleAssistant, text)
	})
	return c.sessions.Snapshot(owner, domain.ChannelReport)
}

func (c *ChatService) analyzeNewReport(ctx context.Context, artifact *domain.UploadedArtifact) (string, string, error) {
	file, err := c.gateway.Upload(ctx, artifact.Path, artifact.MIMEType)
	if err != nil {
		return "", "", err
	}
	cacheName, err := c.gateway.CreateDocumentCache(ctx, file, reportCacheInstruction)
	if err != nil {
		return "", "", err
	}
	summaryPrompt := c.cfg.Prompts.ReportAnalysis
	if summaryPrompt == "" {
		summaryPrompt = defaultReportAnalysisPrompt
	}
	summary, err := c.gateway.GenerateFromCache(ctx, cacheName, summaryPrompt)
	if err != nil {
		return "", "", err
	}
	return cacheName, summary, nil
}

// followupPrompt embeds the prior transcript and the new question into the
// configured follow-up template.
func (c *ChatService) followupPrompt(turns []domain.Turn, question string) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		if t.Role == domain.RoleUser {
			lines = append(lines, "用户: "+t.Content)
		} else {
			lines = append(lines, "助手: "+t.Content)
		}
	}
	tmpl := c.cfg.Prompts.ReportFollowup
	if tmpl == "" {
		tmpl = defaultReportFollowup
	}
	return fmt.Sprintf(tmpl, strings.Join(lines, "\n"), question)
}

func (c *ChatService) appendAssistant(owner string, channel domain.Channel, content string) {
	c.sessions.Update(owner, channel, func(s *domain.Session) {
		s.Append(domain.RoleAssistant, content)
	})
}

func gatewayErrorMessage(format string, err error) string {
	if errors.Is(err, domain.ErrEmptyResponse) {
		return msgEmptyResponse
	}
	return fmt.Sprintf(format, err)
}
