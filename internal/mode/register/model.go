// Package register implements the two-step registration wizard mode.
package register

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/availability"
	"github.com/zjrosen/signup/internal/keys"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/mode"
	"github.com/zjrosen/signup/internal/registration"
	"github.com/zjrosen/signup/internal/ui/toaster"
)

// Toast texts for the submission outcome.
const (
	MsgRegistered         = "Successfully registered"
	MsgRegistrationFailed = "Failed to register"
)

// Registrar submits a completed registration. *api.Client satisfies it.
type Registrar interface {
	Register(ctx context.Context, req api.RegisterRequest) error
}

// forgetter is implemented by checkers that memoize answers.
type forgetter interface {
	Forget(username string)
}

// Config holds the wizard's collaborators and tuning.
type Config struct {
	Checker   availability.Checker
	Registrar Registrar
	Genres    []string

	// Debounce delays the availability check after the last username
	// edit. Zero checks on every edit.
	Debounce time.Duration

	// RequestTimeout bounds each availability check and the submission.
	// Zero means no deadline beyond the client's own.
	RequestTimeout time.Duration
}

type focus int

const (
	focusName focus = iota
	focusUsername
	focusPassword
	focusNext
	focusGenres
	focusBack
	focusRegister
	focusLogin
)

var (
	step1Order = []focus{focusName, focusUsername, focusPassword, focusNext, focusLogin}
	step2Order = []focus{focusGenres, focusBack, focusRegister, focusLogin}
)

// usernameDebounceMsg fires once the username has been left alone for
// the debounce interval.
type usernameDebounceMsg struct {
	gen uint64
}

// usernameCheckedMsg carries an availability answer back to Update.
type usernameCheckedMsg struct {
	gen       uint64
	username  string
	available bool
}

// submitResultMsg carries the registration outcome back to Update.
type submitResultMsg struct {
	err error
}

// Model is the wizard state. The form is shared by pointer and only
// mutated from Update.
type Model struct {
	cfg  Config
	form *registration.Form

	name     textinput.Model
	username textinput.Model
	password textinput.Model

	genreCursor int
	focus       focus

	// checkedGen is the username generation whose check was last issued.
	checkedGen     uint64
	pendingAdvance bool

	keys keys.WizardKeyMap
	help help.Model

	width  int
	height int
}

// New creates the wizard on Step 1 with the name field focused.
func New(cfg Config) Model {
	name := newInput("Your name")
	name.Focus()

	username := newInput("letters, digits, . and _")

	password := newInput("")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		cfg:      cfg,
		form:     registration.NewForm(),
		name:     name,
		username: username,
		password: password,
		focus:    focusName,
		keys:     keys.DefaultWizardKeyMap(),
		help:     help.New(),
	}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize handles terminal resize events.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	inputWidth := max(min(width, maxFormWidth)-4, 10)
	m.name.Width = inputWidth
	m.username.Width = inputWidth - availabilityWidth
	m.password.Width = inputWidth
	m.help.Width = width
	return m
}

// Leave is called when another mode takes over the screen. An answer
// still in flight is applied but no longer advances the step.
func (m Model) Leave() Model {
	m.pendingAdvance = false
	return m
}

// Form exposes the underlying state for the root model and tests.
func (m Model) Form() *registration.Form {
	return m.form
}

// Update implements the wizard's event handling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case usernameDebounceMsg:
		if msg.gen != m.form.UsernameGeneration() || msg.gen == m.checkedGen {
			return m, nil
		}
		cmd := m.checkUsername()
		return m, cmd

	case usernameCheckedMsg:
		if !m.form.ApplyAvailability(msg.gen, msg.username, msg.available) {
			return m, nil
		}
		log.Debug(log.CatWizard, "Username availability", "username", msg.username, "available", msg.available)
		if m.pendingAdvance {
			m.pendingAdvance = false
			return m.next()
		}
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Login) {
		return m, navigate(mode.ModeLogin)
	}

	// The form is locked while the registration request is pending.
	if m.form.Submitting() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextField):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.PrevField):
		return m.moveFocus(-1)
	case key.Matches(msg, m.keys.Back) && m.form.Step() == registration.Step2:
		return m.back()
	case key.Matches(msg, m.keys.Activate):
		return m.activate()
	}

	if m.focus == focusGenres {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.genreCursor = max(m.genreCursor-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.genreCursor = min(m.genreCursor+1, len(m.cfg.Genres)-1)
		case key.Matches(msg, m.keys.Toggle):
			m.toggleGenre(m.genreCursor)
		}
		return m, nil
	}

	return m.updateInput(msg)
}

// updateInput forwards msg to the focused text input and syncs the form.
func (m Model) updateInput(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.name, cmd = m.name.Update(msg)
		m.form.SetName(m.name.Value())
	case focusPassword:
		m.password, cmd = m.password.Update(msg)
		m.form.SetPassword(m.password.Value())
	case focusUsername:
		prev := m.form.Username()
		m.username, cmd = m.username.Update(msg)
		if v := m.username.Value(); v != prev {
			checkCmd := m.usernameChanged(prev, v)
			return m, tea.Batch(cmd, checkCmd)
		}
	}
	return m, cmd
}

// usernameChanged records the new value and schedules its availability
// check.
func (m *Model) usernameChanged(prev, v string) tea.Cmd {
	if f, ok := m.cfg.Checker.(forgetter); ok {
		f.Forget(prev)
	}
	m.pendingAdvance = false

	gen, needsCheck := m.form.SetUsername(v)
	if !needsCheck {
		return nil
	}
	if m.cfg.Debounce <= 0 {
		return m.checkUsername()
	}
	return tea.Tick(m.cfg.Debounce, func(time.Time) tea.Msg {
		return usernameDebounceMsg{gen: gen}
	})
}

// checkUsername issues the availability check for the current username.
func (m *Model) checkUsername() tea.Cmd {
	gen := m.form.UsernameGeneration()
	username := m.form.Username()
	m.checkedGen = gen

	checker := m.cfg.Checker
	timeout := m.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return usernameCheckedMsg{
			gen:       gen,
			username:  username,
			available: checker.CheckUsernameAvailable(ctx, username),
		}
	}
}

func (m Model) checking() bool {
	return m.form.Availability() == registration.AvailabilityUnknown &&
		registration.RequiresRemoteCheck(m.form.Username())
}

func (m Model) nextDisabled() bool {
	return m.form.Availability() == registration.AvailabilityTaken
}

// next runs the guarded Step 1 -> Step 2 transition.
func (m Model) next() (Model, tea.Cmd) {
	if m.nextDisabled() {
		return m, nil
	}

	switch result := m.form.Next(); result {
	case registration.NextAdvanced:
		log.Info(log.CatWizard, "Step changed", "step", m.form.Step())
		return m.setFocus(focusGenres)

	case registration.NextPendingCheck:
		m.pendingAdvance = true
		if m.checkedGen == m.form.UsernameGeneration() {
			return m, nil // answer already on its way
		}
		cmd := m.checkUsername()
		return m, cmd

	default:
		for _, f := range registration.Step1Fields {
			if m.form.Errors().Has(f) {
				return m.setFocus(inputFocus(f))
			}
		}
		return m, nil
	}
}

func (m Model) back() (Model, tea.Cmd) {
	if !m.form.Back() {
		return m, nil
	}
	log.Info(log.CatWizard, "Step changed", "step", m.form.Step())
	return m.setFocus(focusNext)
}

func (m Model) submit() (Model, tea.Cmd) {
	payload, err := m.form.BeginSubmit()
	if err != nil {
		log.Debug(log.CatWizard, "Submit rejected", "error", err)
		if m.form.Errors().Has(registration.FieldFavoriteGenre) {
			return m.setFocus(focusGenres)
		}
		return m, nil
	}

	log.Info(log.CatWizard, "Submitting registration", "username", payload.Username, "genres", len(payload.FavoriteGenre))

	registrar := m.cfg.Registrar
	timeout := m.cfg.RequestTimeout
	return m, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return submitResultMsg{err: registrar.Register(ctx, api.RegisterRequest{
			Name:          payload.Name,
			Username:      payload.Username,
			Password:      payload.Password,
			FavoriteGenre: payload.FavoriteGenre,
		})}
	}
}

func (m Model) handleSubmitResult(msg submitResultMsg) (Model, tea.Cmd) {
	m.form.FinishSubmit(msg.err)

	if msg.err != nil {
		log.ErrorErr(log.CatWizard, "Registration failed", msg.err)
		return m, toast(MsgRegistrationFailed, toaster.StyleError)
	}

	log.Info(log.CatWizard, "Registration succeeded", "username", m.form.Username())
	return m, tea.Batch(
		toast(MsgRegistered, toaster.StyleSuccess),
		navigate(mode.ModeLogin),
	)
}

// activate presses the focused element.
func (m Model) activate() (Model, tea.Cmd) {
	switch m.focus {
	case focusName, focusUsername, focusPassword:
		return m.moveFocus(1)
	case focusNext:
		return m.next()
	case focusGenres:
		return m.setFocus(focusRegister)
	case focusBack:
		return m.back()
	case focusRegister:
		return m.submit()
	case focusLogin:
		return m, navigate(mode.ModeLogin)
	}
	return m, nil
}

func (m *Model) toggleGenre(i int) {
	if i < 0 || i >= len(m.cfg.Genres) {
		return
	}
	genre := m.cfg.Genres[i]
	selected := m.form.FavoriteGenre()

	var next []string
	for _, g := range m.cfg.Genres {
		has := slices.Contains(selected, g)
		if g == genre {
			has = !has
		}
		if has {
			next = append(next, g)
		}
	}
	m.form.SetFavoriteGenre(next)
}

func (m Model) order() []focus {
	if m.form.Step() == registration.Step2 {
		return step2Order
	}
	return step1Order
}

func (m Model) moveFocus(delta int) (Model, tea.Cmd) {
	order := m.order()
	i := slices.Index(order, m.focus)
	if i < 0 {
		return m.setFocus(order[0])
	}
	return m.setFocus(order[(i+delta+len(order))%len(order)])
}

func (m Model) setFocus(f focus) (Model, tea.Cmd) {
	m.focus = f
	m.name.Blur()
	m.username.Blur()
	m.password.Blur()

	switch f {
	case focusName:
		return m, m.name.Focus()
	case focusUsername:
		return m, m.username.Focus()
	case focusPassword:
		return m, m.password.Focus()
	}
	return m, nil
}

func inputFocus(f registration.Field) focus {
	switch f {
	case registration.FieldUsername:
		return focusUsername
	case registration.FieldPassword:
		return focusPassword
	default:
		return focusName
	}
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func toast(message string, style toaster.Style) tea.Cmd {
	return func() tea.Msg {
		return mode.ShowToastMsg{Message: message, Style: style}
	}
}

func navigate(to mode.AppMode) tea.Cmd {
	return func() tea.Msg {
		return mode.NavigateMsg{To: to}
	}
}
