package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOTP returns a cryptographically random numeric code of the given
// length, zero-padded.
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("otp digits must be positive")
	}
	bound := big.NewInt(1)
	for i := 0; i < digits; i++ {
		bound.Mul(bound, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("generating random otp: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// GenerateReferenceCode builds a human-quotable unique code such as an order
// or ticket number: prefix + unix seconds + 6 random digits.
func GenerateReferenceCode(prefix string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}
	return fmt.Sprintf("%s%d%06d", prefix, time.Now().Unix(), n.Int64())
}
