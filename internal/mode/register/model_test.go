package register

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/availability"
	"github.com/zjrosen/signup/internal/mode"
	"github.com/zjrosen/signup/internal/registration"
	"github.com/zjrosen/signup/internal/ui/toaster"
)

var testGenres = []string{"Action", "Comedy", "Drama"}

// stubChecker answers from a fixed set of taken names and records calls.
type stubChecker struct {
	mu        sync.Mutex
	taken     map[string]bool
	calls     []string
	forgotten []string
}

func newStubChecker(taken ...string) *stubChecker {
	s := &stubChecker{taken: map[string]bool{}}
	for _, u := range taken {
		s.taken[u] = true
	}
	return s
}

func (s *stubChecker) CheckUsernameAvailable(_ context.Context, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, username)
	return !s.taken[username]
}

func (s *stubChecker) Forget(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgotten = append(s.forgotten, username)
}

func (s *stubChecker) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type stubRegistrar struct {
	mu   sync.Mutex
	err  error
	reqs []api.RegisterRequest
}

func (s *stubRegistrar) Register(_ context.Context, req api.RegisterRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	return s.err
}

func (s *stubRegistrar) Requests() []api.RegisterRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.RegisterRequest(nil), s.reqs...)
}

func newTestModel(t *testing.T, checker *stubChecker, registrar *stubRegistrar) Model {
	t.Helper()
	m := New(Config{
		Checker:   checker,
		Registrar: registrar,
		Genres:    testGenres,
	})
	return m.SetSize(100, 40)
}

// run executes cmd, feeding the wizard's own messages back into Update
// and returning everything else. Commands that do not finish promptly
// (cursor blinks, ticks) are dropped.
func run(m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		ch := make(chan tea.Msg, 1)
		go func() { ch <- c() }()

		var msg tea.Msg
		select {
		case msg = <-ch:
		case <-time.After(50 * time.Millisecond):
			continue
		}

		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case usernameCheckedMsg, usernameDebounceMsg, submitResultMsg:
			var next tea.Cmd
			m, next = m.Update(msg)
			queue = append(queue, next)
		default:
			out = append(out, msg)
		}
	}
	return m, out
}

func send(m Model, msg tea.Msg) (Model, []tea.Msg) {
	m, cmd := m.Update(msg)
	return run(m, cmd)
}

func typeText(m Model, s string) Model {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m Model, k tea.KeyType) (Model, []tea.Msg) {
	return send(m, tea.KeyMsg{Type: k})
}

// fillStep1 types valid values into all three Step 1 fields and leaves
// focus on the Next button.
func fillStep1(t *testing.T, m Model, username string) Model {
	t.Helper()
	m = typeText(m, "Ada Lovelace")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, username)
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "secret")
	m, _ = press(m, tea.KeyTab)
	require.Equal(t, focusNext, m.focus)
	return m
}

func toStep2(t *testing.T, m Model) Model {
	t.Helper()
	m = fillStep1(t, m, "valid_user1")
	m, _ = press(m, tea.KeyEnter)
	require.Equal(t, registration.Step2, m.Form().Step())
	return m
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestNew_StartsOnStep1(t *testing.T) {
	m := newTestModel(t, newStubChecker(), &stubRegistrar{})

	require.Equal(t, registration.Step1, m.Form().Step())
	require.Equal(t, focusName, m.focus)
	require.True(t, m.name.Focused())
	require.Empty(t, m.Form().Errors())
}

func TestTypingUsername_ChecksAvailability(t *testing.T) {
	checker := newStubChecker()
	m := newTestModel(t, checker, &stubRegistrar{})

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "valid_user1")

	require.Equal(t, []string{"valid_user1"}, checker.Calls())
	require.Equal(t, registration.AvailabilityAvailable, m.Form().Availability())
	require.False(t, m.Form().Errors().Has(registration.FieldUsername))
}

func TestTypingUsername_TakenDisablesNext(t *testing.T) {
	checker := newStubChecker("taken_user")
	m := newTestModel(t, checker, &stubRegistrar{})

	m = fillStep1(t, m, "taken_user")
	fe, ok := m.Form().Error(registration.FieldUsername)
	require.True(t, ok)
	require.Equal(t, registration.MsgUsernameTaken, fe.Message)
	require.True(t, m.nextDisabled())

	m, _ = press(m, tea.KeyEnter)
	require.Equal(t, registration.Step1, m.Form().Step())
}

func TestTypingUsername_ClearingSetsRequiredError(t *testing.T) {
	checker := newStubChecker()
	m := newTestModel(t, checker, &stubRegistrar{})

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "a")
	m, _ = press(m, tea.KeyBackspace)

	fe, ok := m.Form().Error(registration.FieldUsername)
	require.True(t, ok)
	require.Equal(t, registration.MsgUsernameRequired, fe.Message)
	require.Equal(t, []string{"a"}, checker.Calls(), "blank input is never sent to the backend")
}

func TestTypingUsername_ForgetsPreviousValue(t *testing.T) {
	checker := newStubChecker()
	m := newTestModel(t, checker, &stubRegistrar{})

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "abc")
	_ = typeText(m, "d")

	require.Equal(t, []string{"", "abc"}, checker.forgotten)
}

func TestDebounce_OnlyCurrentGenerationChecks(t *testing.T) {
	checker := newStubChecker()
	m := New(Config{Checker: checker, Registrar: &stubRegistrar{}, Genres: testGenres, Debounce: time.Hour})

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "abc")
	staleGen := m.Form().UsernameGeneration()
	m = typeText(m, "d")
	require.Empty(t, checker.Calls(), "nothing is checked before the debounce fires")

	m, _ = send(m, usernameDebounceMsg{gen: staleGen})
	require.Empty(t, checker.Calls())

	m, _ = send(m, usernameDebounceMsg{gen: m.Form().UsernameGeneration()})
	require.Equal(t, []string{"abcd"}, checker.Calls())
	require.Equal(t, registration.AvailabilityAvailable, m.Form().Availability())

	// A duplicate tick for an already checked generation is ignored.
	_, _ = send(m, usernameDebounceMsg{gen: m.Form().UsernameGeneration()})
	require.Len(t, checker.Calls(), 1)
}

func TestStaleAvailabilityResultIsDiscarded(t *testing.T) {
	checker := newStubChecker()
	m := New(Config{Checker: checker, Registrar: &stubRegistrar{}, Genres: testGenres, Debounce: time.Hour})

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "abc")
	oldGen := m.Form().UsernameGeneration()
	m = typeText(m, "d")

	m, _ = send(m, usernameCheckedMsg{gen: oldGen, username: "abc", available: false})

	require.Equal(t, registration.AvailabilityUnknown, m.Form().Availability())
	require.False(t, m.Form().Errors().Has(registration.FieldUsername))
}

func TestNext_WaitsForPendingCheck(t *testing.T) {
	checker := newStubChecker()
	m := New(Config{Checker: checker, Registrar: &stubRegistrar{}, Genres: testGenres, Debounce: time.Hour})

	m = fillStep1(t, m, "valid_user1")
	require.Equal(t, registration.AvailabilityUnknown, m.Form().Availability())

	m, _ = press(m, tea.KeyEnter)

	require.Equal(t, []string{"valid_user1"}, checker.Calls(), "Next issues the check immediately")
	require.Equal(t, registration.Step2, m.Form().Step())
	require.Equal(t, focusGenres, m.focus)
	require.False(t, m.pendingAdvance)
}

func TestNext_PendingCheckTakenStaysOnStep1(t *testing.T) {
	checker := newStubChecker("taken_user")
	m := New(Config{Checker: checker, Registrar: &stubRegistrar{}, Genres: testGenres, Debounce: time.Hour})

	m = fillStep1(t, m, "taken_user")
	m, _ = press(m, tea.KeyEnter)

	require.Equal(t, registration.Step1, m.Form().Step())
	require.False(t, m.pendingAdvance)
	require.True(t, m.nextDisabled())
	fe, _ := m.Form().Error(registration.FieldUsername)
	require.Equal(t, registration.MsgUsernameTaken, fe.Message)
}

func TestNext_BlockedFocusesFirstInvalidField(t *testing.T) {
	m := newTestModel(t, newStubChecker(), &stubRegistrar{})

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "valid_user1")
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyEnter)

	require.Equal(t, registration.Step1, m.Form().Step())
	require.Equal(t, focusName, m.focus)
	require.True(t, m.Form().Errors().Has(registration.FieldName))
	require.True(t, m.Form().Errors().Has(registration.FieldPassword))
}

func TestNext_EmptyUsernameBlocksWithoutCheck(t *testing.T) {
	checker := newStubChecker()
	m := newTestModel(t, checker, &stubRegistrar{})

	m = typeText(m, "Ada")
	m, _ = press(m, tea.KeyShiftTab) // wraps to the login link
	m, _ = press(m, tea.KeyShiftTab) // Next
	require.Equal(t, focusNext, m.focus)
	m, _ = press(m, tea.KeyEnter)

	fe, ok := m.Form().Error(registration.FieldUsername)
	require.True(t, ok)
	require.Equal(t, registration.MsgUsernameRequired, fe.Message)
	require.Empty(t, checker.Calls())
	require.Equal(t, focusUsername, m.focus)
}

func TestBack_PreservesValues(t *testing.T) {
	m := toStep2(t, newTestModel(t, newStubChecker(), &stubRegistrar{}))

	m, _ = press(m, tea.KeySpace)
	m, _ = press(m, tea.KeyEsc)

	require.Equal(t, registration.Step1, m.Form().Step())
	require.Equal(t, focusNext, m.focus)
	require.Equal(t, "Ada Lovelace", m.name.Value())
	require.Equal(t, "valid_user1", m.username.Value())
	require.Equal(t, "secret", m.password.Value())
	require.Equal(t, []string{"Action"}, m.Form().FavoriteGenre())

	m, _ = press(m, tea.KeyEnter)
	require.Equal(t, registration.Step2, m.Form().Step())
}

func TestGenres_ToggleKeepsCatalogOrder(t *testing.T) {
	m := toStep2(t, newTestModel(t, newStubChecker(), &stubRegistrar{}))

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeySpace) // Drama
	m, _ = press(m, tea.KeyUp)
	m, _ = press(m, tea.KeyUp)
	m, _ = press(m, tea.KeySpace) // Action
	require.Equal(t, []string{"Action", "Drama"}, m.Form().FavoriteGenre())

	m, _ = press(m, tea.KeySpace)
	require.Equal(t, []string{"Drama"}, m.Form().FavoriteGenre())

	m, _ = press(m, tea.KeyUp)
	require.Equal(t, 0, m.genreCursor, "cursor stays in range")
}

func TestSubmit_RequiresGenre(t *testing.T) {
	registrar := &stubRegistrar{}
	m := toStep2(t, newTestModel(t, newStubChecker(), registrar))

	m, _ = press(m, tea.KeyTab) // Back
	m, _ = press(m, tea.KeyTab) // Register
	m, _ = press(m, tea.KeyEnter)

	fe, ok := m.Form().Error(registration.FieldFavoriteGenre)
	require.True(t, ok)
	require.Equal(t, registration.MsgFavoriteGenreRequired, fe.Message)
	require.Equal(t, focusGenres, m.focus)
	require.Empty(t, registrar.Requests())

	m, _ = press(m, tea.KeySpace)
	require.False(t, m.Form().Errors().Has(registration.FieldFavoriteGenre))
}

func TestSubmit_Success(t *testing.T) {
	registrar := &stubRegistrar{}
	m := toStep2(t, newTestModel(t, newStubChecker(), registrar))

	m, _ = press(m, tea.KeySpace)
	m, _ = press(m, tea.KeyEnter) // genres -> Register
	require.Equal(t, focusRegister, m.focus)
	m, msgs := press(m, tea.KeyEnter)

	require.Equal(t, []api.RegisterRequest{{
		Name:          "Ada Lovelace",
		Username:      "valid_user1",
		Password:      "secret",
		FavoriteGenre: []string{"Action"},
	}}, registrar.Requests())
	require.Equal(t, registration.SubmissionSucceeded, m.Form().Submission())

	toastMsg, ok := findMsg[mode.ShowToastMsg](msgs)
	require.True(t, ok)
	require.Equal(t, MsgRegistered, toastMsg.Message)
	require.Equal(t, toaster.StyleSuccess, toastMsg.Style)

	nav, ok := findMsg[mode.NavigateMsg](msgs)
	require.True(t, ok)
	require.Equal(t, mode.ModeLogin, nav.To)
}

func TestSubmit_FailureStaysOnStep2(t *testing.T) {
	registrar := &stubRegistrar{err: errors.New("boom")}
	m := toStep2(t, newTestModel(t, newStubChecker(), registrar))

	m, _ = press(m, tea.KeySpace)
	m, _ = press(m, tea.KeyEnter)
	m, msgs := press(m, tea.KeyEnter)

	require.Equal(t, registration.SubmissionFailed, m.Form().Submission())
	require.Equal(t, registration.Step2, m.Form().Step())
	require.Equal(t, []string{"Action"}, m.Form().FavoriteGenre())

	toastMsg, ok := findMsg[mode.ShowToastMsg](msgs)
	require.True(t, ok)
	require.Equal(t, MsgRegistrationFailed, toastMsg.Message)
	require.Equal(t, toaster.StyleError, toastMsg.Style)
	_, navigated := findMsg[mode.NavigateMsg](msgs)
	require.False(t, navigated)

	// A retry is allowed after a failure.
	registrar.mu.Lock()
	registrar.err = nil
	registrar.mu.Unlock()
	m, _ = press(m, tea.KeyEnter)
	require.Len(t, registrar.Requests(), 2)
	require.Equal(t, registration.SubmissionSucceeded, m.Form().Submission())
}

func TestSubmit_InFlightLocksForm(t *testing.T) {
	registrar := &stubRegistrar{}
	m := toStep2(t, newTestModel(t, newStubChecker(), registrar))

	m, _ = press(m, tea.KeySpace)
	m, _ = press(m, tea.KeyEnter)

	// Update without running the returned command keeps the request pending.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.Form().Submitting())

	m, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, again, "second submit is ignored while in flight")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, registration.Step2, m.Form().Step())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, []string{"Action"}, m.Form().FavoriteGenre())

	m, _ = run(m, cmd)
	require.Len(t, registrar.Requests(), 1)
	require.False(t, m.Form().Submitting())
}

func TestLoginShortcut_Navigates(t *testing.T) {
	m := newTestModel(t, newStubChecker(), &stubRegistrar{})

	_, msgs := press(m, tea.KeyCtrlL)
	nav, ok := findMsg[mode.NavigateMsg](msgs)
	require.True(t, ok)
	require.Equal(t, mode.ModeLogin, nav.To)
}

func TestLoginLink_ActivateNavigates(t *testing.T) {
	m := newTestModel(t, newStubChecker(), &stubRegistrar{})

	m, _ = press(m, tea.KeyShiftTab)
	require.Equal(t, focusLogin, m.focus)

	_, msgs := press(m, tea.KeyEnter)
	_, ok := findMsg[mode.NavigateMsg](msgs)
	require.True(t, ok)
}

func TestFocus_CyclesWithinStep(t *testing.T) {
	m := newTestModel(t, newStubChecker(), &stubRegistrar{})

	want := []focus{focusUsername, focusPassword, focusNext, focusLogin, focusName}
	for _, f := range want {
		m, _ = press(m, tea.KeyTab)
		require.Equal(t, f, m.focus)
	}
	require.True(t, m.name.Focused())
	require.False(t, m.username.Focused())
}

func TestLeave_PendingAnswerDoesNotAdvance(t *testing.T) {
	checker := newStubChecker()
	m := New(Config{Checker: checker, Registrar: &stubRegistrar{}, Genres: testGenres, Debounce: time.Hour})

	m = fillStep1(t, m, "valid_user1")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.pendingAdvance)
	require.NotNil(t, cmd)

	m = m.Leave()
	m, _ = run(m, cmd)

	require.Equal(t, registration.Step1, m.Form().Step())
	require.Equal(t, registration.AvailabilityAvailable, m.Form().Availability(), "the answer itself is still recorded")
	require.False(t, m.pendingAdvance)
}

// countingBackend is a raw username lookup that counts requests.
type countingBackend struct {
	mu    sync.Mutex
	calls int
}

func (c *countingBackend) CheckUsername(context.Context, string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return true, nil
}

func (c *countingBackend) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestCachedChecker_ValueChangedAwayAndBackIsRechecked(t *testing.T) {
	backend := &countingBackend{}
	checker := availability.NewRemoteChecker(backend, availability.WithCache(time.Minute))
	m := New(Config{Checker: checker, Registrar: &stubRegistrar{}, Genres: testGenres})

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "abc")
	require.Equal(t, 1, backend.Calls())

	m = typeText(m, "d")
	m, _ = press(m, tea.KeyBackspace)

	require.Equal(t, "abc", m.Form().Username())
	require.Equal(t, 3, backend.Calls(), "edits forget the previous answer")
	require.Equal(t, registration.AvailabilityAvailable, m.Form().Availability())

	// Outside the edit flow the memo answers repeated lookups.
	require.True(t, checker.CheckUsernameAvailable(context.Background(), "abc"))
	require.Equal(t, 3, backend.Calls())
}
