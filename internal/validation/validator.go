package validation

import (
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
)

type Validator struct {
	v *validator.Validate
}

type optional interface {
	ValidationValue() interface{}
}

func New() *Validator {
	v := validator.New()

	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	})

	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := time.Parse("15:04", value)
		return err == nil
	})

	phoneRegex := regexp.MustCompile(`^\+?[0-9 ]{7,18}$`)
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return phoneRegex.MatchString(value)
	})

	val := &Validator{v: v}
	val.RegisterOptional(
		patch.Field[string]{},
		patch.Field[int]{},
		patch.Field[float64]{},
		patch.Field[bool]{},
		patch.Field[[]string]{},
	)
	return val
}

// RegisterOptional makes the given patch.Field types validate as their inner
// value when set. Absent fields are skipped by omitempty. Call it before the
// validator is shared between goroutines.
func (v *Validator) RegisterOptional(types ...interface{}) {
	v.v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if o, ok := field.Interface().(optional); ok {
			return o.ValidationValue()
		}
		return nil
	}, types...)
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
