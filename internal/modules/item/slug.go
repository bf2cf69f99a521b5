package item

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	nonWord    = regexp.MustCompile(`[^\w-]+`)
	dashes     = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases title, turns whitespace into dashes and drops anything
// that is not a word character or a dash.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = whitespace.ReplaceAllString(s, "-")
	s = nonWord.ReplaceAllString(s, "")
	s = dashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "item"
	}
	return s
}

type slugChecker func(ctx context.Context, slug string) (bool, error)

// uniqueSlug appends -2, -3, ... to base until exists reports false.
func uniqueSlug(ctx context.Context, base string, exists slugChecker) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}
