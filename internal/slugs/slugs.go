// Package slugs derives URL-safe identifiers for catalog entries.
// It is shared by the API services and the seed tool.
package slugs

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// maxAttempts bounds the counter search.
const maxAttempts = 1000

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Make converts a display name into a slug, e.g. "Spotify Premium (12 mo)" -> "spotify-premium-12-mo".
func Make(name string) string {
	s := slug.Make(strings.TrimSpace(name))
	if s == "" {
		return "item"
	}
	return s
}

// Unique returns base if it is free, otherwise base-2, base-3, ... whichever is first free.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = "item"
	}
	candidate := base
	for n := 2; n < maxAttempts+2; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}

// IsValid reports whether s already is a well-formed slug.
func IsValid(s string) bool {
	return slug.IsSlug(s)
}
