package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP produces a 6-digit numeric one-time code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
