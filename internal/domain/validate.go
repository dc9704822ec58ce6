package domain

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("setitems", func(fl validator.FieldLevel) bool {
		set, ok := fl.Field().Interface().(StringSet)
		if !ok {
			return false
		}
		return set.Check() == nil
	})

	return v
}

// Validate checks a record against its struct tags.
func Validate(record any) error {
	return validate.Struct(record)
}

// Patch holds the top-level fields of a partial update, keyed by JSON name.
type Patch map[string]json.RawMessage

// NewPatch encodes each field value to JSON.
func NewPatch(fields map[string]any) (Patch, error) {
	patch := make(Patch, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		patch[k] = raw
	}
	return patch, nil
}

// Has reports whether field is present in the patch.
func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}
