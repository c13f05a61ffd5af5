package todo

import (
	"fmt"
	"unicode/utf8"
)

// Field bounds, counted in characters.
const (
	MinTitleLength       = 1
	MaxTitleLength       = 100
	MinDescriptionLength = 1
	MaxDescriptionLength = 200
)

// ValidateTitle checks a title against its length bounds.
func ValidateTitle(title string) error {
	return checkLength("title", title, MinTitleLength, MaxTitleLength, ErrInvalidTitle)
}

// ValidateDescription checks a description against its length bounds.
func ValidateDescription(description string) error {
	return checkLength("description", description, MinDescriptionLength, MaxDescriptionLength, ErrInvalidDescription)
}

// ValidateInput validates every field of in, reporting the first failure.
func ValidateInput(in Input) error {
	if err := ValidateTitle(in.Title); err != nil {
		return err
	}
	return ValidateDescription(in.Description)
}

func checkLength(field, value string, lo, hi int, sentinel error) error {
	n := utf8.RuneCountInString(value)
	if n < lo || n > hi {
		return &FieldError{
			Field:    field,
			Reason:   fmt.Sprintf("length must be between %d and %d", lo, hi),
			sentinel: sentinel,
		}
	}
	return nil
}
