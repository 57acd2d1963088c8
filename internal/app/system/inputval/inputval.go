// internal/app/system/inputval/inputval.go
//
// Package inputval validates request payloads using go-playground/validator
// struct tags and reports violations as field-level messages keyed by the
// JSON field name.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	once sync.Once
	v    *validator.Validate
)

// mobileRE accepts an optional leading '+' and 10 to 15 digits, matching
// what normalize.Mobile produces.
var mobileRE = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func validate() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return mobileRE.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
	})
	return v
}

// Validate returns one message per violated rule, or nil when payload is valid.
func Validate(payload any) []string {
	err := validate().Struct(payload)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

// Check is Validate as an apperr Validation error.
func Check(payload any) error {
	if msgs := Validate(payload); len(msgs) > 0 {
		return apperr.Validation("invalid payload", msgs...)
	}
	return nil
}

// RequireAny fails unless at least one pointer, slice, or map field of the
// patch struct is set.
func RequireAny(patch any) error {
	rv := reflect.Indirect(reflect.ValueOf(patch))
	if rv.Kind() != reflect.Struct {
		return apperr.Unexpectedf("RequireAny: %T is not a struct", patch)
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			if !f.IsNil() {
				return nil
			}
		}
	}
	return apperr.Validation("invalid payload", "at least one field must be provided")
}

func message(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return field + " is required when " + requiredIfClause(fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "mobile":
		return field + " must be a valid mobile number"
	case "objectid":
		return field + " must be a valid id"
	case "url", "http_url":
		return field + " must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func requiredIfClause(param string) string {
	f, val, _ := strings.Cut(param, " ")
	return toSnake(f) + " is " + val
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
