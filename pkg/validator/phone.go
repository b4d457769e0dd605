package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates the phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates the phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrInvalidLength indicates the phone number is outside 7 to 15 digits
	ErrInvalidLength = errors.New("phone number must have between 7 and 15 digits")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator validates international contact numbers. Numbers are
// stored in a normalized form: digits only, with a leading + when a
// country code was given.
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate checks a phone number and returns its normalized form.
// Accepts formats like +94771234567, 077 123 4567 or (206) 555-0100.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	digits := strings.TrimPrefix(sanitized, "+")
	if !digitsRegex.MatchString(digits) {
		return "", ErrInvalidFormat
	}

	if len(digits) < 7 || len(digits) > 15 {
		return "", ErrInvalidLength
	}

	return sanitized, nil
}

// Sanitize strips common separators, keeping digits and a leading +
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.TrimSpace(phone)

	hasPlus := strings.HasPrefix(phone, "+")

	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "+", "")
	phone = replacer.Replace(phone)

	if hasPlus {
		return "+" + phone
	}
	return phone
}

// IsValid reports whether a phone number passes validation
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}

// Format renders a normalized number in groups of three digits for
// display, preserving the country code prefix
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	prefix := ""
	digits := sanitized
	if strings.HasPrefix(sanitized, "+") {
		prefix = "+"
		digits = sanitized[1:]
	}

	var groups []string
	for len(digits) > 4 {
		groups = append(groups, digits[:3])
		digits = digits[3:]
	}
	groups = append(groups, digits)

	return prefix + strings.Join(groups, " "), nil
}
