package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title   *string `form:"title" validate:"omitempty,min=5"`
	Email   string  `json:"email" validate:"required,email"`
	Pass    string  `json:"password" validate:"required,min=6"`
	Confirm string  `json:"confirmPassword" validate:"required,eqfield=Pass"`
}

func strPtr(s string) *string { return &s }

func TestValidate_Valid(t *testing.T) {
	errs := Validate(sample{Email: "a@b.io", Pass: "secret1", Confirm: "secret1"})
	assert.Nil(t, errs)
}

func TestValidate_UsesTagNames(t *testing.T) {
	errs := Validate(sample{Title: strPtr("abc"), Email: "nope", Pass: "123", Confirm: "xyz"})

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Message
	}

	assert.Equal(t, "title must be at least 5 characters long", fields["title"])
	assert.Equal(t, "Invalid email", fields["email"])
	assert.Equal(t, "password must be at least 6 characters long", fields["password"])
	assert.Equal(t, "Passwords do not match", fields["confirmPassword"])
}

func TestValidate_NilPointerSkipped(t *testing.T) {
	errs := Validate(sample{Title: nil, Email: "a@b.io", Pass: "secret1", Confirm: "secret1"})
	assert.Empty(t, errs)
}

func TestFromError_NonValidation(t *testing.T) {
	_, ok := FromError(assert.AnError)
	assert.False(t, ok)
}

func TestValidate_NotBlank(t *testing.T) {
	type named struct {
		Name string `json:"name" validate:"required,notblank"`
	}

	errs := Validate(named{Name: "   "})
	assert.Equal(t, []FieldError{{Field: "name", Message: "name is required"}}, errs)
	assert.Nil(t, Validate(named{Name: " Jane "}))
}
