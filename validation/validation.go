// Package validation checks decoded request bodies against the rules declared in
// their struct tags and turns failures into an apperror.ValidationError.
//
// Rules use go-playground/validator's `validate` tag. A `msg` tag on the same
// field supplies the client-facing message for any rule failing on that field:
//
//	Name string `json:"name" validate:"min=3" msg:"Enter a valid name"`
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/user/notekeeper/apperror"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// engine returns the shared validator. validator.Validate caches struct
// metadata and is safe for concurrent use, so one instance serves every request.
func engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates v (a struct or pointer to struct). It returns nil when every
// rule holds, an *apperror.AppError of type ValidationError listing each
// violation otherwise, or an internal error if v cannot be validated at all.
func Struct(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewInternalError("validation failed", err)
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	violations := make([]apperror.Violation, 0, len(fieldErrs))
	seen := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		// One message per field, matching the tag-level message granularity.
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		var value any = fe.Value()
		// Fields tagged `redact:"true"` (passwords) never echo their input.
		if fieldTag(t, fe, "redact") == "true" {
			value = ""
		}
		violations = append(violations, apperror.Violation{
			Type:     "field",
			Value:    value,
			Msg:      message(t, fe),
			Path:     fe.Field(),
			Location: "body",
		})
	}
	return apperror.NewValidationError(violations)
}

// fieldTag returns the struct tag key of the field behind fe, or "".
func fieldTag(t reflect.Type, fe validator.FieldError, key string) string {
	if t.Kind() != reflect.Struct {
		return ""
	}
	f, ok := t.FieldByName(fe.StructField())
	if !ok {
		return ""
	}
	return f.Tag.Get(key)
}

func message(t reflect.Type, fe validator.FieldError) string {
	if msg := fieldTag(t, fe, "msg"); msg != "" {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed on %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
