package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const cardValidityYears = 4

// randomDigits generates n cryptographically random decimal digits.
func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}

// GenerateCardNumber generates a random 16-digit card number.
func GenerateCardNumber() (string, error) {
	return randomDigits(16)
}

// GenerateCardCVV generates a random 3-digit CVV.
func GenerateCardCVV() (string, error) {
	return randomDigits(3)
}

// CardExpiry returns an MM/YY expiry a fixed number of years from now.
func CardExpiry(now time.Time) string {
	exp := now.AddDate(cardValidityYears, 0, 0)
	return fmt.Sprintf("%02d/%02d", int(exp.Month()), exp.Year()%100)
}
