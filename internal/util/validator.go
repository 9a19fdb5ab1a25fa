package util

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+\d{10,15}$`)
)

// ValidateEmail checks the parent email format.
func ValidateEmail(value string) error {
	if !emailRe.MatchString(value) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePhone checks the parent phone format: leading + and 10-15 digits.
func ValidatePhone(value string) error {
	if !phoneRe.MatchString(value) {
		return fmt.Errorf("invalid phone number, expected +<10-15 digits>")
	}
	return nil
}

// ValidateAmount checks a payment amount before it reaches the store.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	if amount >= 100_000_000 {
		return fmt.Errorf("amount too large, got %d", amount)
	}
	return nil
}

// RegisterValidations hooks the phone rule into gin's request binding so
// handlers can use `binding:"phone"` on request fields. Call once at
// startup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine")
	}
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
}
