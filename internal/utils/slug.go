package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrim    = regexp.MustCompile(`^-|-$`)
)

// GenerateSlug turns a solution name into its URL slug.
func GenerateSlug(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	return slugTrim.ReplaceAllString(slug, "")
}

// NormalizeURL strips the scheme and trailing slashes and lowercases, so
// submitted website URLs can be compared for duplicates.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimRight(u, "/")
	return strings.ToLower(u)
}
