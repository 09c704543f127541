package service

import (
	"regexp"
	"strings"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeEmail lowercases and trims the provided email.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// normalizeProfile cleans the identity fields that search matches against.
// Phone spacing is kept because substring search sees it.
func normalizeProfile(p domain.Profile) domain.Profile {
	p.ID = strings.ToUpper(sanitizeString(p.ID))
	p.Name = sanitizeString(p.Name)
	p.Email = normalizeEmail(p.Email)
	p.Phone = sanitizeString(p.Phone)
	p.AssessmentDate = p.AssessmentDate.UTC()
	return p
}
