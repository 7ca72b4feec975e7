package register

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/signup/internal/registration"
	"github.com/zjrosen/signup/internal/ui/styles"
)

const (
	maxFormWidth      = 60
	availabilityWidth = 13
)

// View renders the active step.
func (m Model) View() string {
	width := m.formWidth()

	var sections []string
	sections = append(sections, styles.TitleStyle.Render("Create your account"))

	if m.form.Step() == registration.Step2 {
		sections = append(sections,
			styles.HintStyle.Render("Step 2 of 2 · Favorite genres"),
			"",
			m.renderGenres(width),
			"",
			m.renderStep2Buttons(),
		)
	} else {
		sections = append(sections,
			styles.HintStyle.Render("Step 1 of 2 · Account"),
			"",
			m.renderInput(registration.FieldName, "Name", m.name, focusName, "", width),
			m.renderInput(registration.FieldUsername, "Username", m.username, focusUsername, m.renderAvailability(), width),
			m.renderInput(registration.FieldPassword, "Password", m.password, focusPassword, "", width),
			"",
			zone.Mark(zoneNext, styles.Button("Next", true, m.focus == focusNext, m.nextDisabled())),
		)
	}

	sections = append(sections, "", m.renderLoginLink(), "", m.help.View(m.keys))

	content := lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
	return zone.Scan(content)
}

func (m Model) formWidth() int {
	if m.width <= 0 {
		return maxFormWidth - 10
	}
	return max(min(m.width-4, maxFormWidth), 20)
}

func (m Model) renderInput(field registration.Field, title string, in textinput.Model, f focus, suffix string, width int) string {
	fe, invalid := m.form.Error(field)

	row := in.View()
	if suffix != "" {
		gap := max(width-2-lipgloss.Width(row)-lipgloss.Width(suffix), 1)
		row += strings.Repeat(" ", gap) + suffix
	}

	section := zone.Mark(fieldZoneID(field), styles.FormSection(styles.FormSectionConfig{
		Content: []string{row},
		Width:   width,
		Title:   title,
		Focused: m.focus == f,
		Invalid: invalid,
	}))
	if invalid {
		section += "\n" + renderFieldError(fe.Message, width)
	}
	return section
}

// renderAvailability is the indicator shown inside the username field.
func (m Model) renderAvailability() string {
	if !registration.RequiresRemoteCheck(m.form.Username()) {
		return ""
	}
	switch m.form.Availability() {
	case registration.AvailabilityAvailable:
		return styles.AvailableStyle.Render("✓ available")
	case registration.AvailabilityTaken:
		return styles.TakenStyle.Render("✗ taken")
	default:
		return styles.CheckingStyle.Render("checking…")
	}
}

func renderFieldError(message string, width int) string {
	wrapped := wordwrap.String(message, max(width-2, 10))
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = " " + styles.FieldErrorStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGenres(width int) string {
	focused := m.focus == focusGenres
	selected := m.form.FavoriteGenre()

	rows := make([]string, 0, len(m.cfg.Genres))
	for i, g := range m.cfg.Genres {
		prefix := " "
		if focused && i == m.genreCursor {
			prefix = styles.SelectionIndicatorStyle.Render(">")
		}
		checkbox := "[ ]"
		for _, s := range selected {
			if s == g {
				checkbox = "[x]"
				break
			}
		}
		rows = append(rows, zone.Mark(genreZoneID(i), prefix+checkbox+" "+g))
	}

	fe, invalid := m.form.Error(registration.FieldFavoriteGenre)
	section := styles.FormSection(styles.FormSectionConfig{
		Content: rows,
		Width:   width,
		Title:   "Favorite genres",
		Hint:    "space to toggle",
		Focused: focused,
		Invalid: invalid,
	})
	if invalid {
		section += "\n" + renderFieldError(fe.Message, width)
	}
	return section
}

func (m Model) renderStep2Buttons() string {
	submitting := m.form.Submitting()

	label := "Register"
	if submitting {
		label = "Registering…"
	}

	back := zone.Mark(zoneBack, styles.Button("Back", false, m.focus == focusBack, submitting))
	register := zone.Mark(zoneSubmit, styles.Button(label, true, m.focus == focusRegister, submitting))
	return back + "  " + register
}

func (m Model) renderLoginLink() string {
	prefix := "  "
	if m.focus == focusLogin {
		prefix = styles.SelectionIndicatorStyle.Render(">") + " "
	}
	return prefix + styles.HintStyle.Render("Already have an account? ") + zone.Mark(zoneLogin, styles.LinkStyle.Render("Login"))
}
