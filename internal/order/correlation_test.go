package order

import (
	"regexp"
	"testing"
)

var hex16 = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestNewCorrelationToken(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := newCorrelationToken()
		if err != nil {
			t.Fatalf("newCorrelationToken() error = %v", err)
		}
		if !hex16.MatchString(tok) {
			t.Fatalf("token %q is not 16 lowercase hex characters", tok)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("token %q generated twice", tok)
		}
		seen[tok] = struct{}{}
	}
}
