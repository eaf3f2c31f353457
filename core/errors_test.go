package core_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/adrsy6394/SkillSpring/core"
)

func TestValidationError(t *testing.T) {
	topLevel := core.NewValidationError(errors.New("invalid email or password"))
	vErr, ok := topLevel.(*core.ValidationError)
	if !ok {
		t.Fatalf("NewValidationError returned %T", topLevel)
	}
	assert.Equal(t, "invalid email or password", vErr.Error())
	assert.Nil(t, vErr.FieldMap())

	fielded := core.NewValidationError(nil,
		core.FieldError{Field: "email", Error: "a user with this email already exists"},
		core.FieldError{Field: "role", Error: "invalid role"},
	).(*core.ValidationError)
	assert.Equal(t, map[string]string{
		"email": "a user with this email already exists",
		"role":  "invalid role",
	}, fielded.FieldMap())
	assert.Equal(t, "email: a user with this email already exists; role: invalid role", fielded.Error())
}

func TestIsShutdown(t *testing.T) {
	err := core.NewShutdownError("integrity fault")
	assert.True(t, core.IsShutdown(err))
	// detected through wrapping
	assert.True(t, core.IsShutdown(errors.Wrap(err, "handling request")))
	assert.False(t, core.IsShutdown(errors.New("ordinary failure")))
}
