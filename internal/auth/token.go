package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// sessionTokenBytes is the entropy of a session token before encoding.
const sessionTokenBytes = 32

// GenerateSessionToken returns a new random session token.
// The token is handed to the browser as a cookie value; only its
// QuickHash is ever used server-side as the session store key.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
