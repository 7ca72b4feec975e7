package registration

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zjrosen/signup/internal/availability"
	"github.com/zjrosen/signup/internal/log"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		return name
	})
	return v
}

// step1Rules carries the rule-based checks for name and password.
// Username has its own ordered pipeline in ValidateUsername.
type step1Rules struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var requiredMessages = map[Field]string{
	FieldName:     MsgNameRequired,
	FieldPassword: MsgPasswordRequired,
}

// RequiresRemoteCheck reports whether raw should be sent to the
// availability checker. Blank input never is.
func RequiresRemoteCheck(raw string) bool {
	return strings.TrimSpace(raw) != ""
}

// ValidateUsername runs the fixed username pipeline: emptiness, then
// availability, then format. AvailabilityUnknown skips the availability
// stage. ok is false when fe holds the single active error.
func ValidateUsername(raw string, avail Availability) (fe FieldError, ok bool) {
	if !RequiresRemoteCheck(raw) {
		return FieldError{Kind: KindManual, Message: MsgUsernameRequired}, false
	}
	if avail == AvailabilityTaken {
		return FieldError{Kind: KindManual, Message: MsgUsernameTaken}, false
	}
	if err := validate.Var(raw, "username"); err != nil {
		return FieldError{Kind: KindManual, Message: MsgUsernameFormat}, false
	}
	return FieldError{}, true
}

// ValidateUsernameRemote asks checker about raw and then applies
// ValidateUsername. Blank input returns the required error without
// contacting checker.
func ValidateUsernameRemote(ctx context.Context, checker availability.Checker, raw string) (FieldError, bool) {
	if !RequiresRemoteCheck(raw) {
		return ValidateUsername(raw, AvailabilityUnknown)
	}
	avail := AvailabilityOf(checker.CheckUsernameAvailable(ctx, raw))
	return ValidateUsername(raw, avail)
}

// ValidateStep1 checks name, username and password together, whether or
// not they were edited. The result holds only failing fields.
func ValidateStep1(name, username, password string, avail Availability) Errors {
	errs := Errors{}

	err := validate.Struct(step1Rules{Name: name, Password: password})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := Field(fe.Field())
			errs[field] = FieldError{Kind: KindValidation, Message: requiredMessages[field]}
		}
	} else if err != nil {
		log.ErrorErr(log.CatForm, "Step 1 validation failed", err)
	}

	if fe, ok := ValidateUsername(username, avail); !ok {
		errs[FieldUsername] = fe
	}

	return errs
}

// ValidateFavoriteGenre requires at least one selected genre.
func ValidateFavoriteGenre(genres []string) (FieldError, bool) {
	if err := validate.Var(genres, "min=1"); err != nil {
		return FieldError{Kind: KindValidation, Message: MsgFavoriteGenreRequired}, false
	}
	return FieldError{}, true
}
