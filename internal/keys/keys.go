// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// WizardKeyMap defines the keybindings for the registration wizard.
type WizardKeyMap struct {
	// Focus movement
	NextField key.Binding
	PrevField key.Binding

	// Genre list (Step 2)
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding

	// Actions
	Activate key.Binding
	Back     key.Binding
	Login    key.Binding

	Quit key.Binding
}

// DefaultWizardKeyMap returns the default wizard keybindings.
func DefaultWizardKeyMap() WizardKeyMap {
	return WizardKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle genre"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Login: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "login"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k WizardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Activate, k.Login, k.Quit}
}

// FullHelp returns keybindings grouped by purpose.
func (k WizardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},    // Focus
		{k.Up, k.Down, k.Toggle},      // Genres
		{k.Activate, k.Back, k.Login}, // Actions
		{k.Quit},                      // General
	}
}

// LoginKeyMap defines the keybindings for the login view.
type LoginKeyMap struct {
	Register key.Binding
	Quit     key.Binding
}

// DefaultLoginKeyMap returns the default login keybindings.
func DefaultLoginKeyMap() LoginKeyMap {
	return LoginKeyMap{
		Register: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "create an account"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k LoginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Register, k.Quit}
}

// FullHelp returns keybindings grouped by purpose.
func (k LoginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Register, k.Quit}}
}
