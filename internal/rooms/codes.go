package rooms

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Cabinet codes are typed off a screen, so look-alikes (0/O, 1/I/L) are left out.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

// NewCode draws a cabinet code from crypto/rand.
func NewCode() (string, error) {
	var code [codeLength]byte
	n := big.NewInt(int64(len(alphabet)))
	for i := range code {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("drawing cabinet code: %w", err)
		}
		code[i] = alphabet[idx.Int64()]
	}
	return string(code[:]), nil
}

// ValidCode reports whether s could have come from NewCode.
func ValidCode(s string) bool {
	if len(s) != codeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !containsByte(alphabet, s[i]) {
			return false
		}
	}
	return true
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
