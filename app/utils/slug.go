package utils

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a school name to its URL-safe slug. The slug is
// the duplicate-detection key, so it must be deterministic: the same
// name always yields the same slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ValidateSchoolName enforces the 2-100 character bound and returns the
// normalized slug.
func ValidateSchoolName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return "", false
	}
	slug := Slugify(trimmed)
	if slug == "" {
		return "", false
	}
	return slug, true
}
