package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/apperror"
)

func testMachine() *Machine {
	return NewMachine("TestDoc", "Draft").
		Allow("submit", "Submitted", "Draft").
		Allow("approve", "Approved", "Submitted").
		Allow("convert", KeepCurrent, "Approved").
		Allow("cancel", "Cancelled", "Draft", "Submitted", "Approved").
		MarkTerminal("Cancelled")
}

func TestApply_HappyPath(t *testing.T) {
	m := testMachine()

	next, err := m.Apply("Draft", "submit")
	require.NoError(t, err)
	assert.Equal(t, State("Submitted"), next)

	next, err = m.Apply(next, "approve")
	require.NoError(t, err)
	assert.Equal(t, State("Approved"), next)
}

func TestApply_RejectsWrongSourceState(t *testing.T) {
	m := testMachine()

	_, err := m.Apply("Draft", "approve")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	assert.Equal(t, "Draft", appErr.Details["status"])
	assert.Equal(t, "approve", appErr.Details["action"])
}

func TestApply_TerminalStateRejectsEverything(t *testing.T) {
	m := testMachine()

	for _, action := range []Action{"submit", "approve", "convert", "cancel"} {
		_, err := m.Apply("Cancelled", action)
		require.Error(t, err, "action %s", action)
		assert.True(t, apperror.IsInvalidTransition(err))
	}
}

func TestApply_KeepCurrentDoesNotMove(t *testing.T) {
	m := testMachine()

	next, err := m.Apply("Approved", "convert")
	require.NoError(t, err)
	assert.Equal(t, State("Approved"), next)
}

func TestApply_UnknownActionIsValidationError(t *testing.T) {
	m := testMachine()

	_, err := m.Apply("Draft", "fly")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestInitialAndTerminal(t *testing.T) {
	m := testMachine()

	assert.Equal(t, State("Draft"), m.Initial())
	assert.True(t, m.IsTerminal("Cancelled"))
	assert.False(t, m.IsTerminal("Draft"))
	assert.True(t, m.Knows("submit"))
	assert.False(t, m.Knows("fly"))
}
