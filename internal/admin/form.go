package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// formValues is a submitted form after parsing: typed column values ready for
// gorm, the raw strings to re-render the form with, and per-field errors.
type formValues struct {
	Values map[string]any
	Raw    map[string]string
	Errors map[string]string
}

func (f formValues) valid() bool {
	return len(f.Errors) == 0
}

// parseForm converts submitted strings into column values per field type
func parseForm(fields []Field, get func(string) (string, bool)) formValues {
	out := formValues{
		Values: map[string]any{},
		Raw:    map[string]string{},
		Errors: map[string]string{},
	}
	for _, f := range fields {
		raw, present := get(f.Name)
		raw = strings.TrimSpace(raw)
		out.Raw[f.Name] = raw

		switch f.Type {
		case FieldBoolean:
			// Unchecked checkboxes are not submitted at all
			out.Values[f.Name] = present && checkboxOn(raw)
			continue
		case FieldInteger, FieldForeignKey:
			if raw == "" {
				if f.Required {
					out.Errors[f.Name] = f.Label + " is required"
				} else {
					out.Values[f.Name] = nil
				}
				continue
			}
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				out.Errors[f.Name] = f.Label + " must be a whole number"
				continue
			}
			out.Values[f.Name] = n
		default:
			if raw == "" && f.Required {
				out.Errors[f.Name] = f.Label + " is required"
				continue
			}
			out.Values[f.Name] = raw
		}

		if f.Rules != "" && raw != "" {
			if err := validate.Var(raw, f.Rules); err != nil {
				out.Errors[f.Name] = ruleMessage(f, err)
			}
		}
	}
	return out
}

func checkboxOn(raw string) bool {
	switch strings.ToLower(raw) {
	case "on", "true", "1", "y", "yes":
		return true
	}
	return false
}

// ruleMessage converts a validator failure into a human-readable message
func ruleMessage(f Field, err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return f.Label + " is invalid"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "email":
		return f.Label + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f.Label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f.Label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f.Label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", f.Label, fe.Tag())
	}
}
