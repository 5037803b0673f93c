package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const correlationTokenBytes = 8

// newCorrelationToken returns 8 random bytes as 16 lowercase hex characters.
func newCorrelationToken() (string, error) {
	b := make([]byte, correlationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate correlation token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
