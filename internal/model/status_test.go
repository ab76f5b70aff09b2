package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeNames(t *testing.T) {
	assert.Equal(t, "REGISTERED", StatusRegistered.String())
	assert.Equal(t, "CANCELLED", StatusCancelled.String())
	assert.Equal(t, "UNKNOWN", StatusCode(0).String())
	assert.Equal(t, "UNKNOWN", StatusCode(42).String())
}

func TestParseStatusRoundTrip(t *testing.T) {
	for _, code := range AllStatuses() {
		parsed, ok := ParseStatus(code.String())
		require.True(t, ok, code.String())
		assert.Equal(t, code, parsed)
	}
	_, ok := ParseStatus("registered")
	assert.False(t, ok, "status names are case sensitive")
}

func TestAllStatusesIsOrderedAndComplete(t *testing.T) {
	all := AllStatuses()
	require.Len(t, all, 9)
	assert.Equal(t, StatusRegistered, all[0])
	assert.Equal(t, StatusCancelled, all[8])
	for _, code := range all {
		assert.True(t, code.Valid())
	}
}

func TestScaleContainsIsInclusive(t *testing.T) {
	s := Scale{Kind: ScaleManual, Worst: 0, Best: 10}
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(5.5))
	assert.False(t, s.Contains(-0.001))
	assert.False(t, s.Contains(10.001))
}
