package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 45% for consumed against an
// estimate. Past 100% the bar stays full and the label keeps the real figure.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	width = max(width, 2)

	bar := bar(min(pct, 1), width)
	style := StyleGreen
	switch {
	case pct > 1:
		style = StyleRed
	case pct < 0.33:
		style = StyleDim
	case pct < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderLoadBar renders a day's load against capacity: green up to 80%,
// yellow to 100%, red when overbooked.
func RenderLoadBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	width = max(width, 2)

	style := StyleGreen
	switch {
	case pct > 1:
		style = StyleRed
	case pct > 0.8:
		style = StyleYellow
	}
	return style.Render(bar(min(pct, 1), width))
}

func bar(pct float64, width int) string {
	filled := min(int(pct*float64(width)+0.5), width)
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}
