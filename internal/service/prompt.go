package service

import (
	"github.com/xiaoyibao/medassist/internal/config"
)

// PromptResolver maps a requested content category to its prompt template.
// Front-ends use it to pick a category when the user supplied none: an
// empty or unknown category resolves to the configured default category's
// template when one exists. Dispatch itself validates explicitly selected
// categories strictly, so a typo never silently runs the wrong prompt.
//
// Stateless given the loaded configuration; identical input always yields
// identical output for the process lifetime.
type PromptResolver struct {
	cfg *config.AppConfig
}

func NewPromptResolver(cfg *config.AppConfig) *PromptResolver {
	return &PromptResolver{cfg: cfg}
}

// Resolve returns the resolved category name and its template. ok reports
// whether any template (direct or fallback) was found.
func (r *PromptResolver) Resolve(category string) (string, config.PromptTemplate, bool) {
	if t, ok := r.cfg.PromptTemplate(category); ok {
		return category, t, true
	}
	if def := r.cfg.SystemConfig.DefaultCategory; def != "" {
		if t, ok := r.cfg.PromptTemplate(def); ok {
			return def, t, true
		}
	}
	return category, config.PromptTemplate{}, false
}
