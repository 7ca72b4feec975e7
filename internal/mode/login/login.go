// Package login is the screen shown after a successful registration and
// behind the wizard's login link.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/signup/internal/keys"
	"github.com/zjrosen/signup/internal/mode"
	"github.com/zjrosen/signup/internal/ui/styles"
)

const zoneRegister = "login:register"

// Model is the login screen.
type Model struct {
	keys keys.LoginKeyMap
	help help.Model

	width  int
	height int
}

// New creates the login screen.
func New() Model {
	return Model{
		keys: keys.DefaultLoginKeyMap(),
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize handles terminal resize events.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	return m
}

// Update handles key and mouse input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Register), msg.Type == tea.KeyEnter:
			return m, toRegister
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(zoneRegister); z != nil && z.InBounds(msg) {
			return m, toRegister
		}
	}
	return m, nil
}

func toRegister() tea.Msg {
	return mode.NavigateMsg{To: mode.ModeRegister}
}

// View renders the screen.
func (m Model) View() string {
	lines := []string{
		styles.TitleStyle.Render("Log in"),
		"",
		"Sign in with the username and password you registered.",
		"",
		styles.HintStyle.Render("Need an account? ") + zone.Mark(zoneRegister, styles.LinkStyle.Render("Create one")),
		"",
		m.help.View(m.keys),
	}
	content := lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
	return zone.Scan(content)
}
