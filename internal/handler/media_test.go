package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCaption(t *testing.T) {
	tests := []struct {
		caption  string
		category string
		question string
	}{
		{"", "", ""},
		{"what is this", "", "what is this"},
		{"#病理", "病理", ""},
		{"#病理 这是什么", "病理", "这是什么"},
		{"#CT\nany findings?", "CT", "any findings?"},
		{"  #病理   这是什么  ", "病理", "这是什么"},
	}
	for _, tt := range tests {
		category, question := parseCaption(tt.caption)
		assert.Equal(t, tt.category, category, "caption %q", tt.caption)
		assert.Equal(t, tt.question, question, "caption %q", tt.caption)
	}
}
