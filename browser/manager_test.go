package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerifyProfileAvailable(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(Config{ProfileDir: dir}, zap.NewNop())

	require.NoError(t, m.VerifyProfileAvailable())

	// A lock marker means another process owns the profile.
	require.NoError(t, os.WriteFile(filepath.Join(dir, profileLockMarker), nil, 0o644))
	err := m.VerifyProfileAvailable()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileLocked)
}

func TestVerifyProfileAvailableSkippedForRemote(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, profileLockMarker), nil, 0o644))

	// Remote sessions share no local profile, so the marker is irrelevant.
	m := NewManager(Config{ProfileDir: dir, RemoteURL: "ws://selenium:4444"}, zap.NewNop())
	assert.NoError(t, m.VerifyProfileAvailable())
}

func TestAliveWithoutSession(t *testing.T) {
	m := NewManager(Config{}, zap.NewNop())
	assert.False(t, m.Alive())
}
