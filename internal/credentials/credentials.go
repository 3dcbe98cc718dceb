// Package credentials hashes and verifies account passwords.
//
// New hashes are bcrypt. Verify also accepts Werkzeug pbkdf2:sha256 hashes
// ("pbkdf2:sha256:<iterations>$<salt>$<hex>") so accounts imported from the
// earlier blog keep working until their next login upgrades them.
package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	legacyPrefix = "pbkdf2:sha256"
	// Werkzeug 2.x default when the method string omits an iteration count.
	legacyDefaultIterations = 260000
	legacyMaxIterations     = 10_000_000
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password must not be empty")

// Hash returns a salted bcrypt hash of password.
func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. A malformed or unknown hash
// never matches.
func Verify(password, hash string) bool {
	if strings.HasPrefix(hash, legacyPrefix) {
		return verifyLegacy(password, hash)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether hash should be replaced by a fresh Hash result.
func NeedsRehash(hash string) bool {
	if strings.HasPrefix(hash, legacyPrefix) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < bcrypt.DefaultCost
}

func verifyLegacy(password, hash string) bool {
	iterations, salt, want, ok := parseLegacy(hash)
	if !ok {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func parseLegacy(hash string) (iterations int, salt string, sum []byte, ok bool) {
	parts := strings.Split(hash, "$")
	if len(parts) != 3 || parts[1] == "" {
		return 0, "", nil, false
	}

	method := strings.Split(parts[0], ":")
	switch len(method) {
	case 2:
		iterations = legacyDefaultIterations
	case 3:
		n, err := strconv.Atoi(method[2])
		if err != nil || n <= 0 || n > legacyMaxIterations {
			return 0, "", nil, false
		}
		iterations = n
	default:
		return 0, "", nil, false
	}

	sum, err := hex.DecodeString(parts[2])
	if err != nil || len(sum) == 0 {
		return 0, "", nil, false
	}
	return iterations, parts[1], sum, true
}
