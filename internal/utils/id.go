package utils

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
	"regexp"
)

const (
	userIDPrefix   = "USER"
	userIDLength   = 9
	userIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// UserIDPattern matches ids produced by GenerateUserID.
var UserIDPattern = regexp.MustCompile(`^USER[A-Z0-9]{9}$`)

// GenerateUserID returns "USER" followed by 9 random uppercase letters or digits.
func GenerateUserID() (string, error) {
	buf := make([]byte, userIDLength)
	max := big.NewInt(int64(len(userIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = userIDAlphabet[n.Int64()]
	}
	return userIDPrefix + string(buf), nil
}

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
