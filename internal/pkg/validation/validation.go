package validation

import (
	"regexp"
	"time"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\d{10,15}$`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

func IsValidHandle(handle string) bool {
	return len(handle) >= 3 && len(handle) <= 20
}

// IsAtLeast13 expects birthDate as "2006-01-02".
func IsAtLeast13(birthDate string) bool {
	birth, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return false
	}
	now := time.Now()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age >= 13
}

// ValidPassword requires at least 8 characters with upper, lower and digit.
func ValidPassword(password string) bool {
	return len(password) >= 8 &&
		upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password)
}
