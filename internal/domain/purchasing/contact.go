package purchasing

import (
	"regexp"
	"strings"
)

// MinPhoneDigits mínimo de dígitos de un teléfono limpio (incluye código de país si lo trae).
const MinPhoneDigits = 10

var (
	phoneNoise   = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	onlyDigits   = regexp.MustCompile(`^[0-9]+$`)
)

// CleanPhone quita espacios, guiones, paréntesis y el '+' inicial.
// Ej: "+91 98765-43210" → "919876543210".
func CleanPhone(phone string) string {
	cleaned := phoneNoise.Replace(strings.TrimSpace(phone))
	return strings.TrimPrefix(cleaned, "+")
}

// ValidPhone: el número limpio debe tener al menos MinPhoneDigits dígitos y nada más.
func ValidPhone(phone string) bool {
	cleaned := CleanPhone(phone)
	return len(cleaned) >= MinPhoneDigits && onlyDigits.MatchString(cleaned)
}

// ValidEmail forma local@dominio.tld; vacío es inválido.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}
