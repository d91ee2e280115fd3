package security

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/baechuer/useradmin/internal/domain"
)

// GeneratedPasswordBytes yields a 22 character password.
const GeneratedPasswordBytes = 16

// GeneratePassword returns a URL-safe random password built from n random bytes.
func GeneratePassword(n int) (string, error) {
	if n <= 0 {
		n = GeneratedPasswordBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", domain.ErrRandomFailed(err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
