package registration

import (
	"slices"

	"github.com/zjrosen/signup/internal/log"
)

// NextResult is the outcome of a Next request.
type NextResult int

const (
	// NextBlocked means validation failed; errors were written to the form.
	NextBlocked NextResult = iota
	// NextAdvanced means the form moved to Step2.
	NextAdvanced
	// NextPendingCheck means Step 1 is otherwise valid but the username
	// has no availability answer yet. Call Next again once one arrives.
	NextPendingCheck
)

func (r NextResult) String() string {
	switch r {
	case NextAdvanced:
		return "advanced"
	case NextPendingCheck:
		return "pending_check"
	default:
		return "blocked"
	}
}

// Form is the single owned state container for the wizard.
type Form struct {
	values       Payload
	errors       Errors
	step         Step
	availability Availability
	submission   SubmissionState
	usernameGen  uint64
}

// NewForm returns an empty form on Step1.
func NewForm() *Form {
	return &Form{errors: Errors{}}
}

func (f *Form) Step() Step { return f.step }
func (f *Form) Availability() Availability { return f.availability }
func (f *Form) Submission() SubmissionState { return f.submission }
func (f *Form) Submitting() bool { return f.submission == SubmissionInFlight }
func (f *Form) UsernameGeneration() uint64 { return f.usernameGen }
func (f *Form) Name() string { return f.values.Name }
func (f *Form) Username() string { return f.values.Username }
func (f *Form) Password() string { return f.values.Password }
func (f *Form) FavoriteGenre() []string { return slices.Clone(f.values.FavoriteGenre) }
func (f *Form) Errors() Errors { return f.errors.clone() }
func (f *Form) Error(field Field) (FieldError, bool) {
	fe, ok := f.errors[field]
	return fe, ok
}

func (f *Form) setError(field Field, fe FieldError, ok bool) {
	if ok {
		delete(f.errors, field)
		return
	}
	f.errors[field] = fe
}

// SetName updates the name. An existing error is re-evaluated.
func (f *Form) SetName(v string) {
	f.values.Name = v
	if f.errors.Has(FieldName) {
		f.revalidateRequired(FieldName)
	}
}

// SetPassword updates the password. An existing error is re-evaluated.
func (f *Form) SetPassword(v string) {
	f.values.Password = v
	if f.errors.Has(FieldPassword) {
		f.revalidateRequired(FieldPassword)
	}
}

func (f *Form) revalidateRequired(field Field) {
	errs := ValidateStep1(f.values.Name, f.values.Username, f.values.Password, f.availability)
	fe, bad := errs[field]
	f.setError(field, fe, !bad)
}

// SetUsername records a new username value. Every change starts a new
// generation and resets availability to unknown. Blank input fails
// immediately with the required error and needs no remote check;
// otherwise the caller should check availability and report back through
// ApplyAvailability with the returned generation.
func (f *Form) SetUsername(v string) (gen uint64, needsCheck bool) {
	if v == f.values.Username {
		return f.usernameGen, false
	}

	f.values.Username = v
	f.usernameGen++
	f.availability = AvailabilityUnknown

	if !RequiresRemoteCheck(v) {
		fe, ok := ValidateUsername(v, AvailabilityUnknown)
		f.setError(FieldUsername, fe, ok)
		return f.usernameGen, false
	}

	// Pending a fresh answer, the previous value's error no longer applies.
	delete(f.errors, FieldUsername)
	return f.usernameGen, true
}

// ApplyAvailability records a check result for username. Results for an
// older generation or a different value are discarded and false is
// returned.
func (f *Form) ApplyAvailability(gen uint64, username string, available bool) bool {
	if gen != f.usernameGen || username != f.values.Username {
		log.Debug(log.CatForm, "Discarding stale availability result",
			"username", username, "gen", gen, "current", f.usernameGen)
		return false
	}

	f.availability = AvailabilityOf(available)
	fe, ok := ValidateUsername(username, f.availability)
	f.setError(FieldUsername, fe, ok)
	return true
}

// Next requests Step1 -> Step2.
func (f *Form) Next() NextResult {
	if f.step != Step1 {
		return NextBlocked
	}

	if !RequiresRemoteCheck(f.values.Username) {
		f.errors[FieldUsername] = FieldError{Kind: KindManual, Message: MsgUsernameRequired}
		log.Debug(log.CatForm, "Next blocked", "reason", "username empty")
		return NextBlocked
	}

	errs := ValidateStep1(f.values.Name, f.values.Username, f.values.Password, f.availability)
	for _, field := range Step1Fields {
		fe, bad := errs[field]
		f.setError(field, fe, !bad)
	}
	if len(errs) > 0 {
		log.Debug(log.CatForm, "Next blocked", "fields", errs.Fields())
		return NextBlocked
	}

	if f.availability == AvailabilityUnknown {
		return NextPendingCheck
	}

	f.step = Step2
	log.Debug(log.CatForm, "Advanced", "step", f.step)
	return NextAdvanced
}

// Back returns to Step1 keeping every value. It reports whether the step
// changed.
func (f *Form) Back() bool {
	if f.step != Step2 {
		return false
	}
	f.step = Step1
	return true
}

// SetFavoriteGenre replaces the selected genres. An existing error is
// re-evaluated.
func (f *Form) SetFavoriteGenre(genres []string) {
	f.values.FavoriteGenre = slices.Clone(genres)
	if f.errors.Has(FieldFavoriteGenre) {
		fe, ok := ValidateFavoriteGenre(f.values.FavoriteGenre)
		f.setError(FieldFavoriteGenre, fe, ok)
	}
}

// BeginSubmit validates the final step and marks the submission in
// flight. The returned payload is a copy.
func (f *Form) BeginSubmit() (Payload, error) {
	if f.step != Step2 {
		return Payload{}, ErrNotOnFinalStep
	}
	if f.submission == SubmissionInFlight {
		return Payload{}, ErrSubmissionInFlight
	}

	fe, ok := ValidateFavoriteGenre(f.values.FavoriteGenre)
	f.setError(FieldFavoriteGenre, fe, ok)
	if !ok {
		return Payload{}, &ValidationError{Errors: Errors{FieldFavoriteGenre: fe}}
	}

	f.submission = SubmissionInFlight
	p := f.values
	p.FavoriteGenre = slices.Clone(f.values.FavoriteGenre)
	return p, nil
}

// FinishSubmit records the outcome of the request started by
// BeginSubmit. Values and step are left untouched on failure.
func (f *Form) FinishSubmit(err error) {
	if f.submission != SubmissionInFlight {
		return
	}
	if err != nil {
		f.submission = SubmissionFailed
		return
	}
	f.submission = SubmissionSucceeded
}
