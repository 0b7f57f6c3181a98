package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe lowercase token from a display name.
func Slugify(name string) string {
	// Normalize accents
	t := norm.NFD.String(name)
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue // remove accent marks
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugExistsFunc reports whether a document other than excludeID already
// holds the slug in the target collection.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug probes base, base-1, base-2, ... until the checker reports the
// slug free, and returns it. The probe is not atomic with the following
// insert; the unique index on slug is the backstop for concurrent creates
// with the same name.
func UniqueSlug(ctx context.Context, name string, exists SlugExistsFunc) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "item"
	}

	slug := base
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
