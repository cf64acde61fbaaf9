package models

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the grocery tags registered:
//
//	category   value is one of Categories
//	unit       value is one of Units
//	yearmonth  value is a "YYYY-MM" month key
//
// decimal.Decimal fields are validated as float64, so "gt=0" works on money.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
			return Unit(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
			return ValidateMonth(fl.Field().String()) == nil
		})
		validate = v
	})
	return validate
}

// Validate runs struct tags on v and reports the first failing rule as one of
// the sentinel errors in package common, wrapped with the field name.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fe := verrs[0]
	return fmt.Errorf("%w: %s", sentinelFor(fe), fe.Field())
}

func sentinelFor(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return common.ErrMissingField
	case "category":
		return common.ErrUnknownCategory
	case "unit":
		return common.ErrUnknownUnit
	case "yearmonth":
		return common.ErrInvalidMonth
	case "eqfield":
		return common.ErrPasswordMismatch
	}

	switch fe.Kind() {
	case reflect.Int, reflect.Int64:
		return common.ErrInvalidQuantity
	case reflect.Float64:
		return common.ErrInvalidAmount
	}
	return common.ErrValidation
}
