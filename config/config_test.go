package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadlessFollowsEnvironment(t *testing.T) {
	orig := AppConfig
	t.Cleanup(func() { AppConfig = orig })

	AppConfig = Config{Env: "local"}
	assert.False(t, Headless())

	// Any hosted environment runs headless, development included.
	AppConfig = Config{Env: "development"}
	assert.True(t, Headless())

	AppConfig = Config{Env: "production"}
	assert.True(t, Headless())
}

func TestHeadlessOverride(t *testing.T) {
	orig := AppConfig
	t.Cleanup(func() { AppConfig = orig })

	AppConfig = Config{Env: "local", HeadlessOverride: "true"}
	assert.True(t, Headless())

	AppConfig = Config{Env: "production", HeadlessOverride: "false"}
	assert.False(t, Headless())

	// Garbage falls back to the environment rule.
	AppConfig = Config{Env: "production", HeadlessOverride: "maybe"}
	assert.True(t, Headless())
}
