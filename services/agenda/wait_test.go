package agenda

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollUntilSucceeds(t *testing.T) {
	calls := 0
	done, err := pollUntil(func() (bool, error) {
		calls++
		return calls == 3, nil
	}, time.Millisecond, 10)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 3, calls)
}

func TestPollUntilExhaustsAttempts(t *testing.T) {
	calls := 0
	done, err := pollUntil(func() (bool, error) {
		calls++
		return false, nil
	}, time.Millisecond, 5)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 5, calls)
}

func TestPollUntilStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	done, err := pollUntil(func() (bool, error) {
		calls++
		return false, boom
	}, time.Millisecond, 5)
	assert.ErrorIs(t, err, boom)
	assert.False(t, done)
	assert.Equal(t, 1, calls)
}
