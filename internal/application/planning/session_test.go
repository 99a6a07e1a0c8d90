package planning_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/application/planning"
)

func TestSession_LateOlderResultIsDropped(t *testing.T) {
	// Arrange
	session := planning.NewSession[string]()
	first := session.Begin()
	second := session.Begin()

	// Act
	keptSecond := session.Commit(second, "B")
	keptFirst := session.Commit(first, "A")

	// Assert
	assert.True(t, keptSecond)
	assert.False(t, keptFirst)
	value, ok, err := session.Latest()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "B", value)
	assert.Equal(t, second, session.Committed())
	assert.False(t, session.Pending())
}

func TestSession_InOrderResultsAreAllKept(t *testing.T) {
	session := planning.NewSession[int]()
	a := session.Begin()
	b := session.Begin()

	assert.True(t, session.Commit(a, 1))
	assert.True(t, session.Pending())
	assert.True(t, session.Commit(b, 2))

	value, _, _ := session.Latest()
	assert.Equal(t, 2, value)
}

func TestSession_NewerFailureSupersedesOlderSuccess(t *testing.T) {
	// Arrange
	session := planning.NewSession[string]()
	first := session.Begin()
	require.True(t, session.Commit(first, "A"))
	second := session.Begin()
	third := session.Begin()

	// Act
	failed := session.Fail(third, errors.New("plan not found"))
	late := session.Commit(second, "B")

	// Assert
	assert.True(t, failed)
	assert.False(t, late)
	value, ok, err := session.Latest()
	assert.True(t, ok)
	assert.Equal(t, "A", value)
	assert.EqualError(t, err, "plan not found")
}

func TestSession_RejectsUnissuedSequence(t *testing.T) {
	session := planning.NewSession[string]()

	assert.False(t, session.Commit(1, "never issued"))

	_, ok, _ := session.Latest()
	assert.False(t, ok)
}
