package config

import "time"

const (
	// Model purposes, matching the keys of model_config in the document.
	PurposeChat     = "chat"
	PurposeVision   = "vision"
	PurposeDocument = "pdf"

	// Defaults applied when model_config is missing a purpose.
	DefaultModelName       = "gemini-2.0-flash-exp"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 2048

	// Login policy
	DefaultPasswordExpiryDays = 3

	// Remote call budget for a single generate/upload round-trip.
	RequestTimeout = 90 * time.Second

	// Lifetime of a server-side document cache.
	DocumentCacheTTL = 1 * time.Hour

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Upload limit enforced by the web front-end.
	MaxUploadBytes = 20 << 20
)

// Directory kinds accepted by AppConfig.ResolveDir.
type DirKind string

const (
	DirUpload DirKind = "upload"
	DirCache  DirKind = "cache"
)
