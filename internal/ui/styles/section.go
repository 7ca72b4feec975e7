package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// FormSectionConfig describes one bordered form field.
type FormSectionConfig struct {
	Content []string
	Width   int
	Title   string
	Hint    string // shown after the title in parentheses
	Focused bool
	Invalid bool // error border, takes precedence over focus
}

// FormSection renders a bordered section with the title inline in the
// top border: ╭─ Title (hint) ──────╮
func FormSection(cfg FormSectionConfig) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	switch {
	case cfg.Invalid:
		borderColor = StatusErrorColor
	case cfg.Focused:
		borderColor = BorderHighlightFocusColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)

	innerWidth := max(cfg.Width-2, 1)

	var topBorder string
	if cfg.Title == "" {
		topBorder = borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	} else {
		titleLen := lipgloss.Width(cfg.Title)
		if cfg.Hint != "" {
			titleLen = lipgloss.Width(cfg.Title + " (" + cfg.Hint + ")")
		}
		dashesAfter := max(innerWidth-titleLen-3, 0) // "─ " before and " " after

		topBorder = borderStyle.Render(borderTopLeft+borderHorizontal+" ") + titleStyle.Render(cfg.Title)
		if cfg.Hint != "" {
			topBorder += " " + HintStyle.Render("("+cfg.Hint+")")
		}
		topBorder += borderStyle.Render(" " + strings.Repeat(borderHorizontal, dashesAfter) + borderTopRight)
	}

	lines := make([]string, 0, len(cfg.Content))
	for _, row := range cfg.Content {
		pad := max(innerWidth-lipgloss.Width(row), 0)
		lines = append(lines, borderStyle.Render(borderVertical)+row+strings.Repeat(" ", pad)+borderStyle.Render(borderVertical))
	}

	bottomBorder := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
