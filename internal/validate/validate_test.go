package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=ADMIN CUSTOMER"`
	Age   int    `form:"age" validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	assert.Nil(t, Struct(signup{Name: "Ana", Email: "ana@example.com"}))

	got := Struct(signup{Email: "nope", Role: "ROOT", Age: -1})
	assert.Equal(t, []string{
		"name should not be empty",
		"email must be an email",
		"role must be one of the following values: ADMIN, CUSTOMER",
		"age must not be less than 0",
	}, got)
}

func TestError(t *testing.T) {
	assert.NoError(t, Error(signup{Name: "Ana", Email: "ana@example.com"}))
	assert.EqualError(t, Error(signup{Email: "ana@example.com"}), "name should not be empty")
}
