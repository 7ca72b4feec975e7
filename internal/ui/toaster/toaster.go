// Package toaster provides a notification toast overlay component.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/signup/internal/ui/overlay"
	"github.com/zjrosen/signup/internal/ui/styles"
)

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleSuccess shows ✅ with green border.
	StyleSuccess Style = iota
	// StyleError shows ❌ with red border.
	StyleError
	// StyleInfo shows ℹ️ with blue border.
	StyleInfo
)

// Model holds the toaster state. Each Show gets a new id so that a
// dismissal scheduled for an earlier toast cannot hide a newer one.
type Model struct {
	message string
	style   Style
	visible bool
	id      uint64
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast, replacing any visible one.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.id++
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the visible toast.
func (m Model) Message() string {
	return m.message
}

// Style returns the style of the visible toast.
func (m Model) Style() Style {
	return m.style
}

// ID identifies the most recent Show.
func (m Model) ID() uint64 {
	return m.id
}

// Update hides the toast when msg dismisses the current one.
func (m Model) Update(msg DismissMsg) Model {
	if msg.ID != m.id {
		return m
	}
	return m.Hide()
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var content string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.ToastBorderErrorColor)
		content = "❌ " + m.message
	case StyleInfo:
		style = style.BorderForeground(styles.ToastBorderInfoColor)
		content = "ℹ️ " + m.message
	default:
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
		content = "✅ " + m.message
	}

	return style.Render(content)
}

// Overlay renders the toast at the bottom center of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}

	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg dismisses the toast with the matching ID.
type DismissMsg struct {
	ID uint64
}

// ScheduleDismiss returns a command that dismisses toast id after d.
func ScheduleDismiss(id uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{ID: id}
	})
}
