package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBreakKind(t *testing.T) {
	for in, want := range map[string]BreakKind{
		"meal":   BreakMeal,
		"/wc":    BreakWC,
		"/SMOKE": BreakSmoke,
		" wc ":   BreakWC,
	} {
		got, err := ParseBreakKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBreakKind("/nap")
	assert.ErrorIs(t, err, ErrUnknownBreakKind)
}

func TestStoreErrorMatching(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := fmt.Errorf("end shift: %w", WrapStore("close shift", cause))

	assert.ErrorIs(t, err, ErrStoreOperation)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "close shift: disk I/O error")

	assert.NoError(t, WrapStore("noop", nil))

	// already wrapped errors keep the innermost op
	twice := WrapStore("outer", WrapStore("inner", cause))
	var se *StoreError
	require.ErrorAs(t, twice, &se)
	assert.Equal(t, "inner", se.Op)
}
