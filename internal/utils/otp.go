package utils

import (
	"crypto/rand" // Cryptographic randomness for OTP codes
	"fmt"         // Zero-padded formatting
	"math/big"    // Big integer bound for rand.Int
)

// GenerateOTP produces a random 6-digit numeric code, zero-padded
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000)) // Uniform in [0, 999999]
	if err != nil {
		return "", err // Entropy source failure
	}
	return fmt.Sprintf("%06d", n.Int64()), nil // Always exactly six digits
}
