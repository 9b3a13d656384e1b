package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookshelf/internal/errs"
)

// InvalidBodyMessage is returned when the request body cannot be bound at all
// (malformed JSON, a JSON value that is not an object, unsupported media type).
const InvalidBodyMessage = "Invalid request body."

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate may return:
//   - *errs.HTTPError: passed to the client unchanged
//   - validator.ValidationErrors or CustomValidationErrors: turned into a 400 with field errors
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Field values are validated as pointers so that a present `false` or ""
	// satisfies `required`, while an absent field fails it.
	v.RegisterCustomTypeFunc(fieldValue[string], Field[string]{})
	v.RegisterCustomTypeFunc(fieldValue[bool], Field[bool]{})
	v.RegisterCustomTypeFunc(fieldValue[int], Field[int]{})

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Struct validates v against its `validate` struct tags.
func Struct(v interface{}) error {
	return validate.Struct(v)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates the struct from path params and the JSON body.
// 2) payload.Validate() applies validation rules.
// 3) Returns *errs.HTTPError (400) if either step fails.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(InvalidBodyMessage, false, nil, nil, nil).WithInternal(err)
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}

		fieldErrors := FieldErrors(err)
		if fieldErrors == nil {
			return errs.ValidationError(err)
		}
		return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors, nil)
	}

	return nil
}

// FieldErrors converts validator or custom validation errors into client-facing field errors.
//
// Returns nil when err is neither.
func FieldErrors(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return fieldErrors
}
