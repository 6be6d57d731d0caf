package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		filled int
		label  string
	}{
		{"empty", 0, 0, "0%"},
		{"half", 0.5, 5, "50%"},
		{"full", 1, 10, "100%"},
		{"over", 1.5, 10, "150%"},
		{"negative", -0.2, 0, "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := stripANSI(RenderProgress(tt.pct, 10))
			assert.Equal(t, tt.filled, strings.Count(out, filledBlock))
			assert.Equal(t, 10-tt.filled, strings.Count(out, emptyBlock))
			assert.Contains(t, out, tt.label)
		})
	}
}

func TestRenderLoadBar(t *testing.T) {
	out := stripANSI(RenderLoadBar(0.75, 8))
	assert.Equal(t, 6, strings.Count(out, filledBlock))
	assert.Equal(t, 2, strings.Count(out, emptyBlock))

	over := stripANSI(RenderLoadBar(1.5, 8))
	assert.Equal(t, 8, strings.Count(over, filledBlock))
}
