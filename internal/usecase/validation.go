package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	MaxTextLength = 50_000
	MaxImageBytes = 10 << 20
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateAnalyzeContentInput(input AnalyzeContentInput) []ValidationError {
	var errors []ValidationError

	hasText := strings.TrimSpace(input.Text) != ""
	hasImage := len(input.Image) > 0

	if !hasText && !hasImage {
		errors = append(errors, ValidationError{"content", "text or image is required"})
	}
	if utf8.RuneCountInString(input.Text) > MaxTextLength {
		errors = append(errors, ValidationError{"text", fmt.Sprintf("must not exceed %d characters", MaxTextLength)})
	}
	if len(input.Image) > MaxImageBytes {
		errors = append(errors, ValidationError{"image", fmt.Sprintf("must not exceed %d bytes", MaxImageBytes)})
	}

	return errors
}

func validateEmail(to string) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(to) == "" {
		errors = append(errors, ValidationError{"to", "is required"})
	} else if _, err := mail.ParseAddress(to); err != nil {
		errors = append(errors, ValidationError{"to", "is invalid"})
	}
	return errors
}

func validationFailed(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
