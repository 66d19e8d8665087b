package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// ErrPasswordTooLong mirrors bcrypt's 72 byte input limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// werkzeug's default when a pbkdf2 hash carries no iteration count
const legacyDefaultIterations = 600000

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches hash. Besides bcrypt it accepts
// werkzeug "pbkdf2:sha256[:iterations]$salt$hexdigest" hashes.
func CheckPassword(plain, hash string) bool {
	if strings.HasPrefix(hash, "pbkdf2:") {
		return checkLegacyPBKDF2(plain, hash)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func checkLegacyPBKDF2(plain, hash string) bool {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, digest := parts[0], parts[1], parts[2]

	args := strings.Split(method, ":")
	if len(args) < 2 || args[0] != "pbkdf2" || args[1] != "sha256" {
		return false
	}

	iterations := legacyDefaultIterations
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) != sha256.Size {
		return false
	}

	got := pbkdf2.Key([]byte(plain), []byte(salt), iterations, sha256.Size, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// IsPasswordTooLong lets callers turn bcrypt's limit into a validation error.
func IsPasswordTooLong(err error) bool {
	return errors.Is(err, ErrPasswordTooLong)
}
