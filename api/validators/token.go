package validators

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var ErrInvalidSecretToken = errors.New("invalid secret token")

// MatchSecretToken compares a provided shared secret with the expected one
// in constant time. An empty expected secret never matches.
func MatchSecretToken(provided, expected string) error {
	provided = strings.TrimSpace(provided)
	if expected == "" || provided == "" {
		return ErrInvalidSecretToken
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return ErrInvalidSecretToken
	}
	return nil
}
