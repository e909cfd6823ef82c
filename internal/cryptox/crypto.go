// Package cryptox implements the password schemes used by the registered-user
// table: verbatim storage (the historical layout) and argon2id hashes.
//
// The scheme is recorded next to the stored value and never guessed from
// it, since a verbatim password may look like a hash.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// Scheme names how a stored password was produced.
type Scheme string

const (
	// SchemePlain is the verbatim layout. Entries written before schemes
	// were recorded have an empty scheme and are read as plain.
	SchemePlain    Scheme = "plain"
	SchemeArgon2id Scheme = "argon2id"
)

const argonPrefix = "argon2id$"

var (
	ErrMalformedHash = errors.New("malformed password hash")
	ErrUnknownScheme = errors.New("unknown password scheme")
)

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword returns "argon2id$<salt>$<key>" with base64 parts and a fresh
// 16-byte salt.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(16)
	key := deriveKey([]byte(password), salt)
	return argonPrefix + base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(key)
}

// CheckPassword compares candidate against a value stored under scheme.
// Comparisons are constant-time.
func CheckPassword(scheme Scheme, stored, candidate string) (bool, error) {
	switch scheme {
	case "", SchemePlain:
		return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
	case SchemeArgon2id:
		return checkArgon2id(stored, candidate)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

func checkArgon2id(stored, candidate string) (bool, error) {
	if !strings.HasPrefix(stored, argonPrefix) {
		return false, ErrMalformedHash
	}
	parts := strings.Split(strings.TrimPrefix(stored, argonPrefix), "$")
	if len(parts) != 2 {
		return false, ErrMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	candidateKey := deriveKey([]byte(candidate), salt)
	return subtle.ConstantTimeCompare(key, candidateKey) == 1, nil
}
