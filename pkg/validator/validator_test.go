package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name           string   `json:"name" validate:"required,max=5"`
	Specialization string   `json:"specialization" validate:"required,oneof=surgeon cardiologist"`
	Rooms          []string `json:"rooms" validate:"omitempty,unique"`
	Zone           string   `json:"zone" validate:"omitempty,timezone"`
}

func TestValidate_Passes(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Name: "Ada", Specialization: "surgeon", Rooms: []string{"1", "2"}, Zone: "Europe/Warsaw"})

	assert.NoError(t, err)
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Name: "Too long", Specialization: "dentist", Rooms: []string{"1", "1"}, Zone: "Mars/Olympus"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"name":           "name must be at most 5 characters",
		"specialization": "specialization must be one of: surgeon, cardiologist",
		"rooms":          "rooms must not contain duplicates",
		"zone":           "zone must be an IANA time zone, e.g. Europe/Warsaw",
	}, v.FormatValidationErrors(err))
}

func TestFormatValidationErrors_Required(t *testing.T) {
	v := NewValidator()

	errs := v.FormatValidationErrors(v.Validate(sample{}))

	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "specialization is required", errs["specialization"])
}

func TestFormatValidationErrors_IgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, NewValidator().FormatValidationErrors(errors.New("boom")))
}
