package register

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/signup/internal/mode"
	"github.com/zjrosen/signup/internal/registration"
)

// Zone IDs for clickable wizard elements.
const (
	zoneNext     = "register:next"
	zoneBack     = "register:back"
	zoneSubmit   = "register:submit"
	zoneLogin    = "register:login"
	zoneGenre    = "register:genre:"
	zoneFieldPfx = "register:field:"
)

func fieldZoneID(f registration.Field) string {
	return zoneFieldPfx + string(f)
}

func genreZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneGenre, index)
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// handleMouse handles left-click releases on marked zones.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	if inZone(zoneLogin, msg) {
		return m, navigate(mode.ModeLogin)
	}
	if m.form.Submitting() {
		return m, nil
	}

	if m.form.Step() == registration.Step1 {
		if inZone(zoneNext, msg) {
			m, _ = m.setFocus(focusNext)
			return m.next()
		}
		for _, f := range registration.Step1Fields {
			if inZone(fieldZoneID(f), msg) {
				return m.setFocus(inputFocus(f))
			}
		}
		return m, nil
	}

	switch {
	case inZone(zoneBack, msg):
		return m.back()
	case inZone(zoneSubmit, msg):
		m, _ = m.setFocus(focusRegister)
		return m.submit()
	}
	for i := range m.cfg.Genres {
		if inZone(genreZoneID(i), msg) {
			m.genreCursor = i
			m.toggleGenre(i)
			return m.setFocus(focusGenres)
		}
	}
	return m, nil
}
