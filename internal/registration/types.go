// Package registration holds the wizard's form state: field values,
// per-field errors, the two-step controller and the submission lifecycle.
//
// Form is not safe for concurrent use. The wizard model owns it and
// mutates it only from the Bubble Tea Update loop.
package registration

import (
	"errors"
	"slices"
	"strings"
)

// Field names a form input. The values match the JSON payload keys.
type Field string

const (
	FieldName          Field = "name"
	FieldUsername      Field = "username"
	FieldPassword      Field = "password"
	FieldFavoriteGenre Field = "favoriteGenre"
)

// Step1Fields are the fields gated by Next, in display order.
var Step1Fields = []Field{FieldName, FieldUsername, FieldPassword}

// ErrorKind says where a FieldError came from.
type ErrorKind string

const (
	// KindManual errors are raised directly by the form (username checks).
	KindManual ErrorKind = "manual"
	// KindValidation errors come from rule-based validation.
	KindValidation ErrorKind = "validation"
)

// Error messages shown under fields.
const (
	MsgUsernameRequired      = "Please fill your username"
	MsgUsernameTaken         = "Username has been used"
	MsgUsernameFormat        = "Username should only contain alphanumeric characters, dots, and underscores"
	MsgNameRequired          = "Please fill your name"
	MsgPasswordRequired      = "Please fill your password"
	MsgFavoriteGenreRequired = "Please choose at least one favorite genre"
)

// FieldError is the single active error of one field.
type FieldError struct {
	Kind    ErrorKind
	Message string
}

// Errors maps invalid fields to their error. Valid fields are absent.
type Errors map[Field]FieldError

// Has reports whether f currently has an error.
func (e Errors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// Fields returns the invalid fields in a stable order.
func (e Errors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Step is the wizard screen.
type Step int

const (
	Step1 Step = iota // identity: name, username, password
	Step2             // profile: favorite genres
)

func (s Step) String() string {
	switch s {
	case Step1:
		return "step1"
	case Step2:
		return "step2"
	default:
		return "unknown"
	}
}

// Availability is the last known remote answer for the current username.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityTaken
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityTaken:
		return "taken"
	default:
		return "unknown"
	}
}

// AvailabilityOf converts a checker answer.
func AvailabilityOf(available bool) Availability {
	if available {
		return AvailabilityAvailable
	}
	return AvailabilityTaken
}

// SubmissionState tracks the registration request.
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionInFlight
	SubmissionSucceeded
	SubmissionFailed
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionInFlight:
		return "in_flight"
	case SubmissionSucceeded:
		return "succeeded"
	case SubmissionFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Payload is everything collected across both steps.
type Payload struct {
	Name          string   `json:"name"`
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	FavoriteGenre []string `json:"favoriteGenre"`
}

var (
	// ErrNotOnFinalStep is returned by BeginSubmit before Step2 is reached.
	ErrNotOnFinalStep = errors.New("registration: submit is only allowed on the final step")
	// ErrSubmissionInFlight is returned by BeginSubmit while a request is pending.
	ErrSubmissionInFlight = errors.New("registration: submission already in flight")
)

// ValidationError lists the fields that blocked an action.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		parts = append(parts, string(f)+": "+e.Errors[f].Message)
	}
	return "registration: invalid fields: " + strings.Join(parts, "; ")
}
