// Package validation holds the checkout form rules. Each rule returns the
// normalized value or an error whose message is safe to show next to the field.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	namePattern   = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	statePattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	zipPattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	nonDigits     = regexp.MustCompile(`\D`)

	validate = validator.New()
)

func FullName(s string) (string, error) {
	n := utf8.RuneCountInString(s)
	switch {
	case n < 2:
		return "", errors.New("Name must be at least 2 characters")
	case n > 100:
		return "", errors.New("Name must be less than 100 characters")
	case !namePattern.MatchString(s):
		return "", errors.New("Name can only contain letters, spaces, hyphens, and apostrophes")
	}
	return s, nil
}

func Email(s string) (string, error) {
	if err := validate.Var(s, "required,email"); err != nil {
		return "", errors.New("Invalid email format")
	}
	if utf8.RuneCountInString(s) > 100 {
		return "", errors.New("Email must be less than 100 characters")
	}
	return strings.ToLower(s), nil
}

// Phone keeps digits only.
func Phone(s string) (string, error) {
	digits := DigitsOnly(s)
	if len(digits) != 10 {
		return "", errors.New("Phone number must be 10 digits")
	}
	return digits, nil
}

func Address(s string) (string, error) {
	n := utf8.RuneCountInString(s)
	switch {
	case n < 5:
		return "", errors.New("Address must be at least 5 characters")
	case n > 200:
		return "", errors.New("Address must be less than 200 characters")
	}
	return s, nil
}

func City(s string) (string, error) {
	n := utf8.RuneCountInString(s)
	switch {
	case n < 2:
		return "", errors.New("City must be at least 2 characters")
	case n > 50:
		return "", errors.New("City must be less than 50 characters")
	case !namePattern.MatchString(s):
		return "", errors.New("City can only contain letters, spaces, hyphens, and apostrophes")
	}
	return s, nil
}

// State upper-cases a two letter code.
func State(s string) (string, error) {
	if utf8.RuneCountInString(s) != 2 {
		return "", errors.New("State must be 2 characters (e.g., NY)")
	}
	up := strings.ToUpper(s)
	if !statePattern.MatchString(up) {
		return "", errors.New("State must be 2 uppercase letters")
	}
	return up, nil
}

func ZipCode(s string) (string, error) {
	if !zipPattern.MatchString(s) {
		return "", errors.New("Zip code must be in format 12345 or 12345-6789")
	}
	return s, nil
}

// CardNumber strips separators and requires 16 digits passing the Luhn check.
func CardNumber(s string) (string, error) {
	digits := DigitsOnly(s)
	if len(digits) != 16 || !Luhn(digits) {
		return "", errors.New("Invalid card number")
	}
	return digits, nil
}

// Luhn reports whether a digit string carries a valid Luhn checksum.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ExpiryDate accepts MM/YY not before the month of now.
func ExpiryDate(s string, now time.Time) (string, error) {
	if !expiryPattern.MatchString(s) {
		return "", errors.New("Expiry date must be in MM/YY format")
	}
	month, _ := strconv.Atoi(s[:2])
	year, _ := strconv.Atoi(s[3:])

	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if year < curYear || (year == curYear && month < curMonth) {
		return "", errors.New("Card has expired")
	}
	return s, nil
}

func CVV(s string) (string, error) {
	if !cvvPattern.MatchString(s) {
		return "", errors.New("CVV must be 3 or 4 digits")
	}
	return s, nil
}

func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
