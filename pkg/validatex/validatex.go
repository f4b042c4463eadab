package validatex

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(fieldName)

	return v
}

// Struct validates exported fields of s against their `validate` tags.
func Struct(s any) error {
	return v.Struct(s)
}

// fieldName reports the json name of a field if it has one and
// the lower camel case Go name otherwise.
func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}

	r, size := utf8.DecodeRuneInString(f.Name)

	return string(unicode.ToLower(r)) + f.Name[size:]
}
