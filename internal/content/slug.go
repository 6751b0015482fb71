package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
)

// maxSlugAttempts bounds the suffix search in UniqueSlug.
const maxSlugAttempts = 100

// ErrSlugExhausted is returned when no free suffix was found for a slug.
var ErrSlugExhausted = errors.New("no free slug available")

// Slugify converts a human readable name into a lowercase, URL-safe slug.
func Slugify(name string) string {
	return slug.Make(name)
}

// SlugExists reports whether a slug is already taken.
type SlugExists func(ctx context.Context, candidate string) (bool, error)

// UniqueSlug slugifies name and, when the result is taken, appends -2, -3, ...
// until exists reports a free candidate. The database unique constraint
// remains the final arbiter; this only avoids the common collision.
func UniqueSlug(ctx context.Context, name string, exists SlugExists) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("%w: %s", ErrSlugExhausted, base)
}
