package cfg

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dropkit/dropkit/pkg/auth"
)

// Config holds everything the server needs, fixed once at startup and passed
// explicitly. It is never stored in a package-level variable.
type Config struct {
	// Root is the absolute, resolved directory being served.
	Root string
	// Credential gates every request when non-nil.
	Credential *auth.Credential
	// TLS enables HTTPS with an ephemeral self-signed certificate.
	TLS bool

	Host string
	Port int
}

// New validates the served directory and optional auth string and builds an
// immutable Config. root may be relative; it is resolved to an absolute path.
func New(fs afero.Fs, root, authString, host string, port int, tlsEnabled bool) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve serve directory: %w", err)
	}
	absRoot = filepath.Clean(absRoot)

	info, err := fs.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("serve directory %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("serve path %s is not a directory", absRoot)
	}

	var cred *auth.Credential
	if authString != "" {
		cred, err = auth.ParseCredential(authString)
		if err != nil {
			return nil, err
		}
	}

	if port <= 0 || port > 65535 {
		return nil, errors.New("port must be between 1 and 65535")
	}

	return &Config{
		Root:       absRoot,
		Credential: cred,
		TLS:        tlsEnabled,
		Host:       host,
		Port:       port,
	}, nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the user-facing base URL for startup logging.
func (c *Config) URL() string {
	scheme := "http"
	if c.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Addr())
}
