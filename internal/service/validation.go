package service

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// Whitespace here is the browser set: ASCII space and controls, every Z
// category separator, and the byte order mark.
var emailShapeRe = regexp.MustCompile(`^[^\s\x{0B}\p{Z}\x{FEFF}@]+@[^\s\x{0B}\p{Z}\x{FEFF}@]+\.[^\s\x{0B}\p{Z}\x{FEFF}@]+$`)

func isFormSpace(r rune) bool {
	return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
}

// trimForm trims the whitespace set the email rule rejects.
func trimForm(s string) string { return strings.TrimFunc(s, isFormSpace) }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide validator with the portal's tags
// registered:
//
//	trimmed_required  non-empty after trimming whitespace
//	u16max=N, u16min=N  length bound counted in UTF-16 code units
//	email_shape       local@domain.tld with no whitespace
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "trimmed_required", func(fl validator.FieldLevel) bool {
			return trimForm(fl.Field().String()) != ""
		})
		mustRegister(v, "email_shape", func(fl validator.FieldLevel) bool {
			return emailShapeRe.MatchString(fl.Field().String())
		})
		mustRegister(v, "u16max", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			return err == nil && UTF16Len(fl.Field().String()) <= n
		})
		mustRegister(v, "u16min", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			return err == nil && UTF16Len(fl.Field().String()) >= n
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// UTF16Len counts a string the way browsers report String#length.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// FieldErrors maps a json field name to the message key of its first failing rule.
type FieldErrors map[string]string

// ValidationError carries per-field message keys; handlers localize them.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "validation failed: " + strings.Join(keys, ",")
}

// validateStruct validates in and maps each failing field's tag through
// keys ("field.tag" -> message key).
func validateStruct(in any, keys map[string]string) error {
	err := Validator().Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		key, ok := keys[fe.Field()+"."+fe.Tag()]
		if !ok {
			key = fe.Field() + "." + fe.Tag()
		}
		out[fe.Field()] = key
	}
	return &ValidationError{Fields: out}
}
