package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// Credential is a single static username/password pair, fixed at startup. A
// nil *Credential disables authentication entirely.
type Credential struct {
	Username string
	Password string
}

var (
	// ErrBadFormat is returned when an auth string has no ':' separator.
	ErrBadFormat = errors.New("auth format must be username:password")
	// ErrEmptyPart is returned when username or password is empty.
	ErrEmptyPart = errors.New("username/password cannot be empty")
)

// ParseCredential parses a "username:password" configuration string. The
// split happens on the first ':' only, so passwords may contain ':'.
func ParseCredential(s string) (*Credential, error) {
	user, pass, found := strings.Cut(s, ":")
	if !found {
		return nil, ErrBadFormat
	}
	if user == "" || pass == "" {
		return nil, ErrEmptyPart
	}
	return &Credential{Username: user, Password: pass}, nil
}

// Verify reports whether presented satisfies configured. A nil configured
// credential means the gate is disabled and everything passes. Username and
// password are each compared in constant time, and both comparisons always
// run so a username mismatch is not observable through timing.
func Verify(configured, presented *Credential) bool {
	if configured == nil {
		return true
	}
	if presented == nil {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(presented.Username), []byte(configured.Username))
	passOK := subtle.ConstantTimeCompare([]byte(presented.Password), []byte(configured.Password))
	return userOK&passOK == 1
}
