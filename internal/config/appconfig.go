package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// AppConfig is the application configuration document, loaded once at
// startup and read-only for the process lifetime. A missing or unreadable
// document is a startup error; missing sections inside a loaded document
// degrade to typed defaults in the accessors.
type AppConfig struct {
	ModelConfig  map[string]ModelParams `json:"model_config"`
	UIConfig     UIConfig               `json:"ui_config"`
	SystemConfig SystemConfig           `json:"system_config"`
	Prompts      Prompts                `json:"prompts"`
}

// ModelParams are the per-purpose generation parameters.
type ModelParams struct {
	ModelName       string  `json:"model_name"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int32   `json:"max_output_tokens"`
}

type UIConfig struct {
	Title       string `json:"title"`
	ChatTitle   string `json:"chat_title"`
	ImageTitle  string `json:"image_title"`
	ReportTitle string `json:"report_title"`
	FileTitle   string `json:"file_title"`
	ThemeColor  string `json:"theme_color"`
}

type SystemConfig struct {
	UploadPath          string      `json:"upload_path"`
	CachePath           string      `json:"cache_path"`
	SupportedImageTypes []string    `json:"supported_image_types"`
	SupportedDocTypes   []string    `json:"supported_doc_types"`
	DefaultCategory     string      `json:"default_category"`
	Proxy               ProxyConfig `json:"proxy"`
	Login               LoginConfig `json:"login_config"`
}

type ProxyConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

type LoginConfig struct {
	Password   string `json:"password"`
	ExpiryDays int    `json:"expiry_days"`
}

type Prompts struct {
	Chat            string                    `json:"chat"`
	ReportAnalysis  string                    `json:"report_analysis"`
	ReportFollowup  string                    `json:"report_followup"`
	AnalysisPrompts map[string]PromptTemplate `json:"analysis_prompts"`
}

// PromptTemplate pairs a category's instruction text with the MIME type the
// category's uploads are expected to carry.
type PromptTemplate struct {
	SystemPrompt string `json:"system_prompt"`
	MIMEType     string `json:"mime_type"`
}

func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config document: %w", err)
	}
	cfg := &AppConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config document: %w", err)
	}
	return cfg, nil
}

// ModelParams returns the generation parameters for a purpose, filling
// zero values with defaults so callers never see an unusable record.
func (c *AppConfig) ModelParams(purpose string) ModelParams {
	p := c.ModelConfig[purpose]
	if p.ModelName == "" {
		p.ModelName = DefaultModelName
	}
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	if p.MaxOutputTokens == 0 {
		p.MaxOutputTokens = DefaultMaxOutputTokens
	}
	return p
}

// PromptTemplate looks up the template for a content category. Absence is a
// normal outcome for unknown categories and is reported via ok.
func (c *AppConfig) PromptTemplate(category string) (PromptTemplate, bool) {
	t, ok := c.Prompts.AnalysisPrompts[category]
	return t, ok
}

// Categories returns the configured analysis category names.
func (c *AppConfig) Categories() []string {
	out := make([]string, 0, len(c.Prompts.AnalysisPrompts))
	for name := range c.Prompts.AnalysisPrompts {
		out = append(out, name)
	}
	return out
}

// ResolveDir ensures the configured directory for kind exists and returns
// its path. Creation is idempotent.
func (c *AppConfig) ResolveDir(kind DirKind) (string, error) {
	var path string
	switch kind {
	case DirUpload:
		path = c.SystemConfig.UploadPath
		if path == "" {
			path = "uploads"
		}
	case DirCache:
		path = c.SystemConfig.CachePath
		if path == "" {
			path = "cache"
		}
	default:
		return "", fmt.Errorf("unknown directory kind %q", kind)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create %s directory: %w", kind, err)
	}
	return path, nil
}

// LoginPolicy returns the configured login password (empty means the gate
// is disabled) and the token expiry duration, defaulting to 3 days.
func (c *AppConfig) LoginPolicy() (string, time.Duration) {
	days := c.SystemConfig.Login.ExpiryDays
	if days <= 0 {
		days = DefaultPasswordExpiryDays
	}
	return c.SystemConfig.Login.Password, time.Duration(days) * 24 * time.Hour
}
