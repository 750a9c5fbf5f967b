package auth

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegexp    = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")
	usernameRegexp = regexp.MustCompile(`^\w{1,24}$`)
)

// ValidationError reports a single violated rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the ordered set of rule violations for one request.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Field+" "+e.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Rule checks one property of a registration request.
type Rule struct {
	Field   string
	Message string
	Valid   func(r RegisterAccountRequest) bool
}

// DefaultRules is the registration policy, evaluated in order.
var DefaultRules = []Rule{
	{"email", "must be a well-formed email address", func(r RegisterAccountRequest) bool {
		return emailRegexp.MatchString(r.Email)
	}},
	{"userName", "must be 1-24 letters, digits or underscores", func(r RegisterAccountRequest) bool {
		return usernameRegexp.MatchString(r.Username)
	}},
	{"password", "must be at least 8 characters long", func(r RegisterAccountRequest) bool {
		return len([]rune(r.Password)) >= 8
	}},
	// bcrypt rejects longer input
	{"password", "must be at most 72 bytes long", func(r RegisterAccountRequest) bool {
		return len(r.Password) <= 72
	}},
	{"password", "must contain an upper-case letter", func(r RegisterAccountRequest) bool {
		return strings.IndexFunc(r.Password, unicode.IsUpper) >= 0
	}},
	{"password", "must contain a digit", func(r RegisterAccountRequest) bool {
		return strings.IndexFunc(r.Password, unicode.IsDigit) >= 0
	}},
}

type Validator struct {
	rules []Rule
}

// NewValidator returns a validator over rules, or DefaultRules when none are given.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Validator{rules: rules}
}

// Validate runs every rule and returns all failures, or nil.
func (v *Validator) Validate(r RegisterAccountRequest) error {
	var errs ValidationErrors
	for _, rule := range v.rules {
		if !rule.Valid(r) {
			errs = append(errs, ValidationError{Field: rule.Field, Message: rule.Message})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
