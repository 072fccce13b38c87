// Package validate centralizes the row-level field rules so that the
// create and update paths share identical checks. Every function
// returns a typed validation error suitable for direct client display.
package validate

import (
	"regexp"
	"time"

	svcErr "github.com/oggyb/matchmaker/internal/errors"
)

const (
	MinAge = 18
	MaxAge = 100
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	nameRe  = regexp.MustCompile(`^[\w.@+-]+$`)

	// Password policy pieces; Go's regexp has no lookahead so the
	// classes are checked one by one.
	passLowerRe   = regexp.MustCompile(`[a-z]`)
	passUpperRe   = regexp.MustCompile(`[A-Z]`)
	passDigitRe   = regexp.MustCompile(`\d`)
	passSpecialRe = regexp.MustCompile(`[@$!%*?&]`)
	passAllowedRe = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
)

// Email checks the RFC-shaped email pattern and the column length cap.
func Email(email string) error {
	if len(email) > 150 || !emailRe.MatchString(email) {
		return svcErr.Validation("Invalid email format")
	}
	return nil
}

// FirstName checks the `^[\w.@+-]+$` name rule.
func FirstName(name string) error {
	if len(name) == 0 || len(name) > 50 || !nameRe.MatchString(name) {
		return svcErr.Validation("First name is invalid")
	}
	return nil
}

// LastName checks the `^[\w.@+-]+$` name rule.
func LastName(name string) error {
	if len(name) == 0 || len(name) > 50 || !nameRe.MatchString(name) {
		return svcErr.Validation("Last name is invalid")
	}
	return nil
}

// Password enforces at least 8 characters including lower-case,
// upper-case, digits and special symbols.
func Password(password string) error {
	ok := len(password) >= 8 &&
		passAllowedRe.MatchString(password) &&
		passLowerRe.MatchString(password) &&
		passUpperRe.MatchString(password) &&
		passDigitRe.MatchString(password) &&
		passSpecialRe.MatchString(password)
	if !ok {
		return svcErr.Validation("The length at least 8 symbols, including lower-case, upper-case, nums, and special symbols.")
	}
	return nil
}

// BirthDate requires the derived age to be within [18, 100] as of now.
func BirthDate(birthDate, now time.Time) error {
	age := Age(birthDate, now)
	if age < MinAge {
		return svcErr.Validation("Age must be at least 18 years old.")
	}
	if age > MaxAge {
		return svcErr.Validation("Age must not be older than 100 years.")
	}
	return nil
}

// Age derives whole years between birthDate and now, adjusting when the
// birthday has not occurred yet this year.
func Age(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// Coordinates checks latitude/longitude ranges before any write.
func Coordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return svcErr.Validation("Latitude must be between -90 and 90.")
	}
	if longitude < -180 || longitude > 180 {
		return svcErr.Validation("Longitude must be between -180 and 180.")
	}
	return nil
}
