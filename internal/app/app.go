// Package app contains the root application model.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/signup/internal/keys"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/mode"
	"github.com/zjrosen/signup/internal/mode/login"
	"github.com/zjrosen/signup/internal/mode/register"
	"github.com/zjrosen/signup/internal/ui/toaster"
)

// DefaultToastDuration is used when Config.ToastDuration is zero.
const DefaultToastDuration = 3 * time.Second

// Config wires the root model.
type Config struct {
	Register      register.Config
	ToastDuration time.Duration
}

// Model is the root application state.
type Model struct {
	// Mode management
	currentMode mode.AppMode
	register    register.Model
	login       login.Model

	// Global state
	width  int
	height int

	// Centralized toaster - owned by app, not individual modes
	toaster       toaster.Model
	toastDuration time.Duration

	quit key.Binding
}

// New creates the application on the registration wizard.
func New(cfg Config) Model {
	d := cfg.ToastDuration
	if d <= 0 {
		d = DefaultToastDuration
	}
	return Model{
		currentMode:   mode.ModeRegister,
		register:      register.New(cfg.Register),
		login:         login.New(),
		toaster:       toaster.New(),
		toastDuration: d,
		quit:          keys.DefaultWizardKeyMap().Quit,
	}
}

// Mode returns the active screen.
func (m Model) Mode() mode.AppMode {
	return m.currentMode
}

// Register returns the wizard model.
func (m Model) Register() register.Model {
	return m.register
}

// Toaster returns the toast state.
func (m Model) Toaster() toaster.Model {
	return m.toaster
}

func (m Model) Init() tea.Cmd {
	return m.register.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.register = m.register.SetSize(msg.Width, msg.Height)
		m.login = m.login.SetSize(msg.Width, msg.Height)

		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			log.Info(log.CatUI, "Quit requested", "mode", m.currentMode)
			return m, tea.Quit
		}

	case mode.NavigateMsg:
		if msg.To == m.currentMode {
			return m, nil
		}
		log.Info(log.CatUI, "Switching mode", "from", m.currentMode, "to", msg.To)
		if m.currentMode == mode.ModeRegister {
			m.register = m.register.Leave()
		}
		m.currentMode = msg.To
		if msg.To == mode.ModeRegister {
			return m, m.register.Init()
		}
		return m, nil

	case mode.ShowToastMsg:
		m.toaster = m.toaster.Show(msg.Message, msg.Style)

		return m, toaster.ScheduleDismiss(m.toaster.ID(), m.toastDuration)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)

		return m, nil
	}

	// Input goes to the visible screen. Everything else belongs to the
	// wizard, so answers to its requests land even after navigating away.
	if m.currentMode == mode.ModeLogin && isInput(msg) {
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.register, cmd = m.register.Update(msg)

	return m, cmd
}

func isInput(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		return true
	}
	return false
}

func (m Model) View() string {
	var view string
	switch m.currentMode {
	case mode.ModeLogin:
		view = m.login.View()
	default:
		view = m.register.View()
	}

	return m.toaster.Overlay(view, m.width, m.height)
}
