package util

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// MinPassphraseLength is the shortest passphrase accepted for encrypted exports.
const MinPassphraseLength = 8

var (
	ErrPassphraseTooShort = errors.New("passphrase must be at least 8 characters")
	ErrPassphraseWeak     = errors.New("passphrase must mix uppercase, lowercase and digits")
)

// ValidatePassphrase enforces the minimum strength for export passphrases.
func ValidatePassphrase(pass string) error {
	if utf8.RuneCountInString(pass) < MinPassphraseLength {
		return ErrPassphraseTooShort
	}
	var upper, lower, digit bool
	for _, r := range pass {
		upper = upper || unicode.IsUpper(r)
		lower = lower || unicode.IsLower(r)
		digit = digit || unicode.IsDigit(r)
	}
	if !upper || !lower || !digit {
		return ErrPassphraseWeak
	}
	return nil
}
