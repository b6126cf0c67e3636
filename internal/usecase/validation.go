package usecase

import (
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	nonDigits        = regexp.MustCompile(`\D`)
	postalCodeFormat = regexp.MustCompile(`^\d{4}$`)
)

func ValidateBookingForm(input BookingFormInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len([]rune(strings.TrimSpace(input.Name))) < 2 {
		errors = append(errors, ValidationError{"name", "must have at least 2 characters"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	if email == "" && phone == "" {
		errors = append(errors, ValidationError{"email", "email or phone is required"})
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}
	if phone != "" && !isValidDanishPhone(phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid Danish phone number"})
	}

	if strings.TrimSpace(input.Address) == "" {
		errors = append(errors, ValidationError{"address", "is required"})
	}
	if input.PostalCode != "" && !postalCodeFormat.MatchString(strings.TrimSpace(input.PostalCode)) {
		errors = append(errors, ValidationError{"postal_code", "must have 4 digits"})
	}

	h := input.EstimatedHours
	if h != 0 && (h < 0 || math.IsNaN(h) || math.IsInf(h, 0) || h > 24) {
		errors = append(errors, ValidationError{"estimated_hours", "must be between 0 and 24"})
	}

	if len(input.Notes) > 2000 {
		errors = append(errors, ValidationError{"notes", "must not exceed 2000 characters"})
	}

	return errors
}

// isValidDanishPhone accepts 8 digits, optionally prefixed with 45 / +45 / 0045.
func isValidDanishPhone(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	cleaned = strings.TrimPrefix(cleaned, "00")
	if len(cleaned) == 10 && strings.HasPrefix(cleaned, "45") {
		cleaned = cleaned[2:]
	}
	return len(cleaned) == 8
}

func validationMessage(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
