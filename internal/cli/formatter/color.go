package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style for a plan status.
func StatusColor(status domain.PlanStatus) lipgloss.Style {
	switch status {
	case domain.StatusComplete:
		return StyleGreen
	case domain.StatusOverPlanned:
		return StyleRed
	case domain.StatusUnderPlanned:
		return StyleYellow
	default:
		return StyleDim
	}
}

// StatusPill returns a colored indicator such as "● OVER PLANNED".
func StatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.StatusComplete:
		return StyleGreen.Render("✔ COMPLETE")
	case domain.StatusOverPlanned:
		return StyleRed.Render("▲ OVER PLANNED")
	case domain.StatusUnderPlanned:
		return StyleYellow.Render("● UNDER PLANNED")
	default:
		return StyleDim.Render("○ NO ESTIMATE")
	}
}

// AccuracyPill renders the final verdict of an initiative's estimate.
func AccuracyPill(a domain.Accuracy) string {
	switch a {
	case domain.AccuracyOnTarget:
		return StyleGreen.Render("✔ ON TARGET")
	case domain.AccuracyOver:
		return StyleRed.Render("▲ OVER ESTIMATE")
	case domain.AccuracyUnder:
		return StyleBlue.Render("▼ UNDER ESTIMATE")
	case domain.AccuracyPending:
		return StyleYellow.Render("… PENDING")
	default:
		return StyleDim.Render("○ NO ESTIMATE")
	}
}

// Swatch renders a block in the initiative's own color. Invalid colors fall
// back to the default.
func Swatch(hex string) string {
	if !validHex(hex) {
		hex = domain.DefaultColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

func validHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
