package provision

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// PasswordLength is the length of generated credential passwords
const PasswordLength = 16

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassword returns a random alphanumeric password of PasswordLength
// characters.
func GeneratePassword() (string, error) {
	size := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, PasswordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
