package model

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLen = 256
	MaxTagLen   = 64
)

// ValidateTitle enforces a non-empty, bounded title after trimming.
func ValidateTitle(title string) error {
	t := strings.TrimSpace(title)
	if t == "" {
		return NewValidationError("title", "must not be empty")
	}
	if utf8.RuneCountInString(t) > MaxTitleLen {
		return NewValidationError("title", "exceeds 256 characters")
	}
	return nil
}

// ValidateID rejects empty identifiers.
func ValidateID(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}

// ValidateDraft checks a create request.
func ValidateDraft(d Draft) error {
	if err := ValidateTitle(d.Title); err != nil {
		return err
	}
	return validateTags(d.Tags)
}

// ValidatePatch checks an update request. Setting isArchived is refused; use
// archive/unarchive instead.
func ValidatePatch(p Patch) error {
	if p.IsArchived != nil {
		return NewValidationError("isArchived", "use archive or unarchive to change archive state")
	}
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Tags != nil {
		return validateTags(*p.Tags)
	}
	return nil
}

func validateTags(tags []string) error {
	for _, t := range tags {
		if utf8.RuneCountInString(strings.TrimSpace(t)) > MaxTagLen {
			return NewValidationError("tags", "tag exceeds 64 characters")
		}
	}
	return nil
}
