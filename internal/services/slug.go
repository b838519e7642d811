package services

import (
	"regexp"
	"strings"
)

// Slugify lowercases the title and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both edges. The result
// may be empty when the title has no usable characters; callers decide what
// that means.
func Slugify(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// CleanKeywords trims, drops empties and duplicates, and caps the set at 12.
func CleanKeywords(keywords []string) []string {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		value := strings.TrimSpace(keyword)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		cleaned = append(cleaned, value)
		if len(cleaned) >= 12 {
			break
		}
	}
	return cleaned
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func CleanSearchTerm(term string) string {
	cleaned := strings.TrimSpace(term)
	return whitespaceRun.ReplaceAllString(cleaned, " ")
}
