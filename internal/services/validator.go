package services

import (
	"regexp"
	"strings"

	"resume-screener/internal/models"
)

var (
	namePattern        = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	strictEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonPhonePattern    = regexp.MustCompile(`[^\d+]`)
)

// ValidateFields normalizes extracted candidate fields. It is pure and total:
// a field that fails its rule is cleared (name to "Unknown", the rest to ""),
// never dropped. Applying it twice gives the same result.
func ValidateFields(fields models.ExtractedFields) models.ExtractedFields {
	validated := fields

	if fields.Name != "" && fields.Name != "Unknown" {
		if namePattern.MatchString(fields.Name) {
			validated.Name = titleCase(strings.TrimSpace(fields.Name))
		} else {
			validated.Name = "Unknown"
		}
	} else {
		validated.Name = "Unknown"
	}

	if fields.Email != "" {
		if strictEmailPattern.MatchString(fields.Email) {
			validated.Email = strings.ToLower(strings.TrimSpace(fields.Email))
		} else {
			validated.Email = ""
		}
	}

	if fields.Phone != "" {
		cleaned := nonPhonePattern.ReplaceAllString(fields.Phone, "")
		digits := strings.ReplaceAll(cleaned, "+", "")
		if len(digits) >= 7 && len(digits) <= 15 {
			validated.Phone = cleaned
		} else {
			validated.Phone = ""
		}
	}

	return validated
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
