package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapURLValidation(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))

	type payload struct {
		URL string `validate:"required,mapurl"`
	}

	valid := []string{
		"https://goo.gl/maps/Xk2abc",
		"https://www.google.com/maps/place/Ramallah",
		"http://maps.google.com/?q=31.9,35.2",
		"maps.apple.com/?ll=31.9,35.2",
	}
	for _, url := range valid {
		assert.NoError(t, v.Struct(payload{URL: url}), url)
	}

	invalid := []string{
		"https://example.com/maps",
		"not a url",
		"https://goo.gl/other/abc",
	}
	for _, url := range invalid {
		assert.Error(t, v.Struct(payload{URL: url}), url)
	}
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, 5, parsed.Day())

	_, err = ParseDate("05/03/2026")
	assert.Error(t, err)
}
