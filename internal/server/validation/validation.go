// Package validation checks request payloads and reports every failing field
// at once as Errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

// FieldError describes one invalid field. Field is the JSON path of the
// value, e.g. "ingredients[1].name".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a non-empty list of field errors.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with the rules used by the API:
// "emaildomain" (suffix configured at construction) and "notblank".
type Validator struct {
	validate      *validator.Validate
	allowedDomain string
}

func New(allowedDomain string) *Validator {
	v := &Validator{
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		allowedDomain: allowedDomain,
	}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	// Registration only fails for empty tags or nil functions.
	_ = v.validate.RegisterValidation("emaildomain", func(fl validator.FieldLevel) bool {
		return strings.HasSuffix(strings.ToLower(fl.Field().String()), strings.ToLower(v.allowedDomain))
	})
	_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Struct validates s by its `validate` tags. It returns nil or Errors.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: fieldPath(fe.Namespace()), Message: v.message(fe)})
	}
	return out
}

// Patch checks the fields a partial recipe update sets.
func (v *Validator) Patch(p models.RecipePatch) Errors {
	var out Errors
	if p.Title != nil {
		if err := v.validate.Var(*p.Title, "min=3,max=80"); err != nil {
			out = append(out, FieldError{Field: "title", Message: lengthMessage(err)})
		}
	}
	if p.CookTimeMinutes != nil {
		// cook_time_minutes is an INTEGER column.
		if err := v.validate.Var(*p.CookTimeMinutes, "gte=0,lte=2147483647"); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) && len(ve) > 0 {
				out = append(out, FieldError{Field: "cook_time_minutes", Message: v.message(ve[0])})
			}
		}
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func (v *Validator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "value is not a valid email address"
	case "emaildomain":
		return fmt.Sprintf("email must end with %s", v.allowedDomain)
	case "unique":
		return "must not contain duplicates"
	case "min", "max":
		if fe.Kind() == reflect.String {
			if fe.Tag() == "min" {
				return fmt.Sprintf("must be at least %s characters", fe.Param())
			}
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}

func lengthMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 && ve[0].Tag() == "max" {
		return fmt.Sprintf("must be at most %s characters", ve[0].Param())
	}
	return "must be at least 3 characters"
}
