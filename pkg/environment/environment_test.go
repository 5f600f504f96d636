package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvironmentDefaults(t *testing.T) {
	environ, err := NewEnvironment(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", environ.Host)
	assert.Equal(t, 8000, environ.Port)
	assert.Equal(t, ".", environ.Root)
	assert.Empty(t, environ.Auth)
	assert.False(t, environ.TLS)
}

func TestNewEnvironmentInjected(t *testing.T) {
	t.Parallel()

	injected := &Environment{
		Host: "127.0.0.1",
		Port: 9000,
		Root: "/srv/files",
		Auth: "admin:secret",
		TLS:  true,
	}
	environ, err := NewEnvironment(injected)
	require.NoError(t, err)
	assert.Same(t, injected, environ)
}

func TestNewEnvironmentOverrides(t *testing.T) {
	t.Setenv("DROPKIT_HOST", "10.0.0.5")
	t.Setenv("DROPKIT_PORT", "8443")
	t.Setenv("DROPKIT_TLS", "true")

	environ, err := NewEnvironment(nil)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", environ.Host)
	assert.Equal(t, 8443, environ.Port)
	assert.True(t, environ.TLS)
}
