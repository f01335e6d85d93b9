package users

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/util"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "only alphanumeric characters and underscores are allowed"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	usernameOrEmailTag  = "username_or_email"
	usernameOrEmailText = "one of username or email is required"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	registerTranslation(alphaNumUnderTag, alphaNumUnderText)

	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	registerTranslation(allRolesTag, allRolesText)

	validate.RegisterStructValidation(newUserStructValidation, api.NewUser{})
	registerTranslation(usernameOrEmailTag, usernameOrEmailText)

	registerTranslation(requiredTag, requiredText, true)
	registerTranslation(requiredWithTag, requiredText, true)
}

// registerTranslation registers a message for a validation tag.
func registerTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Validators

func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}

// allRolesValidation checks that provided user roles are all known.
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if !slices.Contains(api.AllRoles, role) {
			return false
		}
	}
	return true
}

// newUserStructValidation does NewUser's struct level validation
func newUserStructValidation(sl validator.StructLevel) {
	if nu, ok := sl.Current().Interface().(api.NewUser); ok {
		// one of Username or Email is required
		if strings.TrimSpace(nu.Username) == "" && strings.TrimSpace(nu.Email) == "" {
			sl.ReportError(nu.Username, "username", "Username", usernameOrEmailTag, "")
			sl.ReportError(nu.Email, "email", "Email", usernameOrEmailTag, "")
		}
	}
}

// ValidationError maps form fields (by JSON name) to a message.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// FieldErrors lets the table form place each message under its input.
func (e ValidationError) FieldErrors() map[string]string { return e }

// AsRosterError renders the problem for the CLI.
func (e ValidationError) AsRosterError() *util.RosterError {
	return util.InvalidInputError(e)
}

// Validate checks a NewUser or UpdateUser the way the backend would.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationError, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; !seen {
			out[field] = fe.Translate(translator)
		}
	}
	return out
}
