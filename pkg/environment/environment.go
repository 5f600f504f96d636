package environment

import (
	env "github.com/Netflix/go-env"
)

// Environment holds server settings loaded from the OS environment or
// defaults. CLI flags take precedence over these values.
type Environment struct {
	Host           string `env:"DROPKIT_HOST,default=0.0.0.0"`
	Port           int    `env:"DROPKIT_PORT,default=8000"`
	Root           string `env:"DROPKIT_ROOT,default=."`
	Auth           string `env:"DROPKIT_AUTH"`
	TLS            bool   `env:"DROPKIT_TLS,default=false"`
	NonInteractive string `env:"NON_INTERACTIVE,default=0"`
	Extras         env.EnvSet
}

// NewEnvironment initializes and returns a new Environment. When environ is
// non-nil it is returned as-is, which lets tests inject fixed settings.
func NewEnvironment(environ *Environment) (*Environment, error) {
	if environ != nil {
		return environ, nil
	}

	environment := &Environment{}
	es, err := env.UnmarshalFromEnviron(environment)
	if err != nil {
		return nil, err
	}
	environment.Extras = es

	return environment, nil
}
