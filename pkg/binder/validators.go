package binder

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

// urlValidator ensures the value is an absolute http or https URL or the empty
// string. The empty string is allowed so that this validator can be used to
// clear out values. If you're using this validator but want the value to be
// required, add a `required` to the validate tag as well.
func urlValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
