package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// planboardHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func planboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// initiativeColors are offered by the create form.
var initiativeColors = []huh.Option[string]{
	huh.NewOption("Red", domain.DefaultColor),
	huh.NewOption("Orange", "#f97316"),
	huh.NewOption("Yellow", "#eab308"),
	huh.NewOption("Green", "#22c55e"),
	huh.NewOption("Teal", "#14b8a6"),
	huh.NewOption("Blue", "#3b82f6"),
	huh.NewOption("Purple", "#a855f7"),
	huh.NewOption("Pink", "#ec4899"),
}

// initiativeFormValues backs the create form; huh binds to strings.
type initiativeFormValues struct {
	Name        string
	Description string
	Estimate    string
	Color       string
	Icon        string
}

func (v initiativeFormValues) input() (domain.InitiativeInput, error) {
	in := domain.InitiativeInput{
		Name:        v.Name,
		Description: strings.TrimSpace(v.Description),
		Color:       v.Color,
		Icon:        strings.TrimSpace(v.Icon),
	}
	if s := strings.TrimSpace(v.Estimate); s != "" {
		h, err := parseHours(s)
		if err != nil {
			return in, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		in.EstimatedHours = &h
	}
	return in, in.Validate()
}

// wizardInitiative creates a huh form collecting a new initiative.
func wizardInitiative(v *initiativeFormValues) *huh.Form {
	if v.Color == "" {
		v.Color = domain.DefaultColor
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&v.Name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Description").
				Placeholder("optional").
				Value(&v.Description),
			huh.NewInput().
				Title("Estimated Hours").
				Placeholder("blank for none").
				Value(&v.Estimate).
				Validate(validateOptionalHours),
			huh.NewSelect[string]().
				Title("Color").
				Options(initiativeColors...).
				Value(&v.Color),
			huh.NewInput().
				Title("Icon").
				Placeholder("optional, e.g. 🚀").
				Value(&v.Icon),
		),
	).WithTheme(planboardHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a yes/no confirmation form.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(planboardHuhTheme()).WithShowHelp(false)
}

func validateRequired(title string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", title)
		}
		return nil
	}
}

func validateOptionalHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "h"), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}
