// Package validation checks user input before it reaches the registration manager.
// The manager accepts anything; these rules belong to the front-end.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StudentInput is the data needed to add a student.
type StudentInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,simple_email"`
}

// CourseInput is the data needed to add a course.
type CourseInput struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Message string
}

// Error lists every rejected field of one input.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validator applies registrar's input rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the simple_email rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	// RegisterValidation only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	return &Validator{validate: v}
}

// IsValidEmail reports whether email contains "@" with at least one
// character on each side of its first occurrence.
func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// Student trims and validates a student input.
func (v *Validator) Student(name, email string) (StudentInput, error) {
	in := StudentInput{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	return in, v.check(in)
}

// Course trims and validates a course input. Capacity is parsed with ParseCapacity.
func (v *Validator) Course(name, capacity string) (CourseInput, error) {
	capValue, _ := ParseCapacity(capacity)
	in := CourseInput{Name: strings.TrimSpace(name), Capacity: capValue}
	return in, v.check(in)
}

// Name trims and validates a name on its own, for prompts that ask one field at a time.
func (v *Validator) Name(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := v.validate.Var(name, "required"); err != nil {
		return name, &Error{Fields: []FieldError{{Field: "name", Message: "name cannot be empty"}}}
	}
	return name, nil
}

func (v *Validator) check(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: formatValidationError(fe)})
	}
	return out
}

// ParseCapacity converts menu input to a capacity. Anything that is not a
// number means unlimited (0) and reports ok=false. Negative numbers clamp to 0.
func ParseCapacity(s string) (capacity int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return max(0, n), true
}

// formatValidationError creates a human-readable validation error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " cannot be empty"
	case "simple_email":
		return "invalid " + e.Field() + " format"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
