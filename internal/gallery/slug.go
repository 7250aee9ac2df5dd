package gallery

import (
	"fmt"
	"strings"
)

// maxSlugLength bounds generated slugs so URLs stay readable.
const maxSlugLength = 50

// Slugify derives a URL-safe slug from a title: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, trimmed, and
// truncated to 50 characters.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "photo"
	}
	return slug
}

// UniqueSlug resolves collisions against taken by appending -2, -3, ... until
// the slug is free. The caller is responsible for adding the result to taken.
func UniqueSlug(base string, taken map[string]struct{}) string {
	if _, exists := taken[base]; !exists {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}
