package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// RemoveDiacritics folds accented letters to their base form
// ("Café" -> "Cafe"). Letters without a decomposition are kept as is.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return strings.ReplaceAll(strings.ReplaceAll(out, "đ", "d"), "Đ", "D")
}

// GenerateSlug turns a display name into a URL-safe slug:
// "Men's Shirt" -> "mens-shirt".
func GenerateSlug(input string) string {
	s := strings.ToLower(RemoveDiacritics(strings.TrimSpace(input)))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugExistsFunc reports whether a slug is already taken.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// GenerateUniqueSlug returns base when free, otherwise the first free
// base-1, base-2, ...
func GenerateUniqueSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// LegacySlug converts a legacy fixture identifier to a slug:
// "Mountain_fox_-_Vector_graphics" -> "mountain-fox-vector-graphics".
func LegacySlug(fixtureID string) string {
	if strings.TrimSpace(fixtureID) == "" {
		return ""
	}
	s := strings.ReplaceAll(fixtureID, "_-_", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ToLower(s)
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
