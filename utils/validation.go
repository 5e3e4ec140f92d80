package utils

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Accepts Google Maps / Apple Maps style links for unit locations.
var mapURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(google\.com/maps|goo\.gl/maps|maps\.google\.com|maps\.apple\.com)`)

// RegisterCustomValidations adds the domain rules to the app validator.
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("mapurl", func(fl validator.FieldLevel) bool {
		return mapURLPattern.MatchString(fl.Field().String())
	})
}

// ParseDate parses a YYYY-MM-DD payload value into a UTC midnight time, the
// representation every date column and range check uses.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
