// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"} // Hints, help text, footers

	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#B0B0B0", Dark: "#696969"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#E1A100", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Accent used by the wizard title and step indicator
	AccentColor = lipgloss.AdaptiveColor{Light: "#E08A00", Dark: "#F5B041"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// Button colors
	ButtonTextColor             = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor        = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonSecondaryBgColor      = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonSecondaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}
	ButtonDisabledBgColor       = lipgloss.AdaptiveColor{Light: "#2D2D2D", Dark: "#2D2D2D"}
	ButtonDisabledTextColor     = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#777777"}

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true)

	PrimaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonPrimaryBgColor)

	PrimaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonPrimaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	SecondaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonSecondaryBgColor)

	SecondaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonSecondaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	DisabledButtonStyle = baseButtonStyle.
				Bold(false).
				Foreground(ButtonDisabledTextColor).
				Background(ButtonDisabledBgColor)

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)

	HintStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	FieldErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	LinkStyle = lipgloss.NewStyle().Foreground(BorderHighlightFocusColor).Underline(true)

	AvailableStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	TakenStyle     = lipgloss.NewStyle().Foreground(StatusErrorColor)
	CheckingStyle  = lipgloss.NewStyle().Foreground(StatusWarningColor)
)

// Button renders label with the style for its state. Disabled wins over
// focused.
func Button(label string, primary, focused, disabled bool) string {
	switch {
	case disabled:
		return DisabledButtonStyle.Render(label)
	case primary && focused:
		return PrimaryButtonFocusedStyle.Render(label)
	case primary:
		return PrimaryButtonStyle.Render(label)
	case focused:
		return SecondaryButtonFocusedStyle.Render(label)
	default:
		return SecondaryButtonStyle.Render(label)
	}
}
