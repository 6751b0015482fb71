package content

import (
	"fmt"
	"strconv"
)

// Featured is the priority tier of a project. Higher tiers are listed first.
type Featured int

const (
	FeaturedNone Featured = 0
	FeaturedYes  Featured = 1
	FeaturedMain Featured = 2
)

// ParseFeatured parses the numeric form used in forms and query strings.
func ParseFeatured(s string) (Featured, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return FeaturedNone, fmt.Errorf("invalid featured value %q", s)
	}
	f := Featured(n)
	if !f.Valid() {
		return FeaturedNone, fmt.Errorf("featured value %d out of range", n)
	}
	return f, nil
}

// Valid reports whether f is one of the known tiers.
func (f Featured) Valid() bool {
	return f >= FeaturedNone && f <= FeaturedMain
}

// IsFeatured reports whether f is any featured tier.
func (f Featured) IsFeatured() bool {
	return f > FeaturedNone
}

// Compare orders tiers for display: it returns a negative number when f
// must be listed before o, zero when they tie and positive otherwise.
func (f Featured) Compare(o Featured) int {
	return int(o) - int(f)
}

func (f Featured) String() string {
	switch f {
	case FeaturedNone:
		return "Not Featured"
	case FeaturedYes:
		return "Featured"
	case FeaturedMain:
		return "Main Featured"
	default:
		return fmt.Sprintf("Featured(%d)", int(f))
	}
}
