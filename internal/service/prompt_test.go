package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaoyibao/medassist/internal/config"
)

func resolverConfig(defaultCategory string) *config.AppConfig {
	return &config.AppConfig{
		Prompts: config.Prompts{
			AnalysisPrompts: map[string]config.PromptTemplate{
				"病理": {SystemPrompt: "pathology prompt", MIMEType: "image/jpeg"},
				"CT": {SystemPrompt: "ct prompt", MIMEType: "image/png"},
			},
		},
		SystemConfig: config.SystemConfig{DefaultCategory: defaultCategory},
	}
}

func TestResolveKnownCategory(t *testing.T) {
	r := NewPromptResolver(resolverConfig("病理"))

	name, tmpl, ok := r.Resolve("CT")

	assert.True(t, ok)
	assert.Equal(t, "CT", name)
	assert.Equal(t, "ct prompt", tmpl.SystemPrompt)
}

func TestResolveEmptyFallsBackToDefault(t *testing.T) {
	r := NewPromptResolver(resolverConfig("病理"))

	name, tmpl, ok := r.Resolve("")

	assert.True(t, ok)
	assert.Equal(t, "病理", name)
	assert.Equal(t, "pathology prompt", tmpl.SystemPrompt)
}

func TestResolveUnknownFallsBackToDefault(t *testing.T) {
	r := NewPromptResolver(resolverConfig("病理"))

	name, _, ok := r.Resolve("X光")

	assert.True(t, ok)
	assert.Equal(t, "病理", name)
}

func TestResolveNoDefaultConfigured(t *testing.T) {
	r := NewPromptResolver(resolverConfig(""))

	name, _, ok := r.Resolve("X光")

	assert.False(t, ok)
	assert.Equal(t, "X光", name)
}

func TestResolveDefaultItselfUnknown(t *testing.T) {
	r := NewPromptResolver(resolverConfig("不存在"))

	_, _, ok := r.Resolve("X光")

	assert.False(t, ok)
}
