// Package utils provides small, generic helper functions used across
// different layers of the application. This file implements URL-safe slug
// derivation from human-readable titles.
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonSlugRE matches every run of characters that may not appear in a slug.
var nonSlugRE = regexp.MustCompile(`[^a-z0-9]+`)

// deaccent decomposes text and strips combining marks, so "Café" folds to
// "Cafe" before the ASCII filter runs.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a lowercase, hyphen-separated, URL-safe identifier from a
// title. Accented letters are folded to their ASCII base form, every other
// non-alphanumeric run collapses to a single hyphen, and leading/trailing
// hyphens are trimmed. The result may be empty when the input contains no
// usable characters; callers decide the fallback.
//
// Example:
//
//	Slugify("The Winter Sea")   // "the-winter-sea"
//	Slugify("  Café   Noir! ")  // "cafe-noir"
func Slugify(title string) string {
	s, _, err := transform.String(deaccent, title)
	if err != nil {
		s = title
	}
	s = strings.ToLower(s)
	s = nonSlugRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
