package service

import (
	"reflect"
	"strings"

	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names so errors match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return apperror.FromValidator(err)
	}
	return nil
}
