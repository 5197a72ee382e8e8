package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageUsesJSONNames(t *testing.T) {
	type input struct {
		Name  string  `json:"name" validate:"required"`
		Price float64 `json:"price" validate:"gte=0"`
		Note  string  `validate:"max=2"`
	}
	err := New().Struct(input{Price: -1, Note: "long"})
	assert.Equal(t, "name is required; price must be gte 0; Note must be max 2", Message(err))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
