package validation

import (
	"errors"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error this package returns
var ErrInvalid = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// "mailbox" checks address syntax the same way the contact importer does
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(strings.TrimSpace(fl.Field().String())) == nil
	})
	return v
}

// Error lists the problems found on a struct
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return strings.Join(e.Problems, ", ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// ValidateStruct runs the struct tags of s and formats failures per field
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Problems: []string{err.Error()}}
	}

	var problems []string
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "min":
			problems = append(problems, field+" must have at least "+fe.Param()+" entries")
		case "max":
			problems = append(problems, field+" must be at most "+fe.Param()+" characters")
		case "email", "mailbox":
			problems = append(problems, field+" must be a valid email")
		case "oneof":
			problems = append(problems, field+" must be one of: "+fe.Param())
		default:
			problems = append(problems, field+" is invalid")
		}
	}
	return &Error{Problems: problems}
}

// Address reports whether addr is a syntactically valid email address
func Address(addr string) error {
	if err := checkmail.ValidateFormat(strings.TrimSpace(addr)); err != nil {
		return &Error{Problems: []string{addr + ": " + err.Error()}}
	}
	return nil
}
