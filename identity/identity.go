// Package identity derives canonical identifiers and storage key layouts for
// books and chapters. Everything here is a pure function.
package identity // import "github.com/storyhouse/storyhouse/identity"

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedIdentifier means a book or chapter id does not parse.
	// Always a caller bug, never retried.
	ErrMalformedIdentifier = errors.New("identity: malformed identifier")
	// ErrInvalidChapterNumber means a chapter number is not a positive integer.
	ErrInvalidChapterNumber = errors.New("identity: invalid chapter number")
)

const (
	// Separator joins the lower-cased author address and the slug in the
	// canonical book id. ParseBookID also accepts "/" since some call
	// sites address books as "{author}/{slug}".
	Separator = "-"

	// MaxSlugLength bounds slugs so storage keys stay within object key
	// limits.
	MaxSlugLength = 50
)

var (
	addressPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	chapterKeyPattern = regexp.MustCompile(`^ch([1-9][0-9]*)$`)
	// Renamed keys carry a conflict suffix: ch5-a1b2c3, possibly with a
	// secondary disambiguator appended.
	chapterKeyLoosePattern = regexp.MustCompile(`^ch([1-9][0-9]*)(?:-.+)?$`)
	slugDropPattern        = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespacePattern      = regexp.MustCompile(`\s+`)
	hyphenRunPattern       = regexp.MustCompile(`-{2,}`)
)

// BookID composes the canonical book id from an author address and a slug.
// The address is lower-cased so the same wallet always yields the same id.
func BookID(authorAddress, slug string) string {
	return strings.ToLower(authorAddress) + Separator + slug
}

// ParseBookID recovers the (authorAddress, slug) pair from a book id. Both
// the canonical "{author}-{slug}" form and the "{author}/{slug}" form parse
// to the same pair.
func ParseBookID(id string) (authorAddress, slug string, err error) {
	if i := strings.Index(id, "/"); i >= 0 {
		authorAddress, slug = id[:i], id[i+1:]
	} else {
		// The address has a fixed width (0x + 40 hex), so the first
		// separator after it splits the id even when the slug itself
		// contains hyphens.
		if len(id) < 44 || id[42] != '-' {
			return "", "", errors.Wrapf(ErrMalformedIdentifier, "book id %q", id)
		}
		authorAddress, slug = id[:42], id[43:]
	}
	if !addressPattern.MatchString(authorAddress) || slug == "" {
		return "", "", errors.Wrapf(ErrMalformedIdentifier, "book id %q", id)
	}
	return strings.ToLower(authorAddress), slug, nil
}

// Slugify turns a title into a url and storage safe slug. Deterministic and
// idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugDropPattern.ReplaceAllString(slug, "")
	slug = whitespacePattern.ReplaceAllString(slug, "-")
	slug = hyphenRunPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
		slug = strings.TrimRight(slug, "-")
	}
	return slug
}

// ChapterKey formats a chapter number as its chapter map key, "ch{n}".
func ChapterKey(n int) (string, error) {
	if n <= 0 {
		return "", errors.Wrapf(ErrInvalidChapterNumber, "chapter %d", n)
	}
	return fmt.Sprintf("ch%d", n), nil
}

// ParseChapterKey is the strict inverse of ChapterKey. Renamed conflict keys
// do not parse here; use KeyNumber for those.
func ParseChapterKey(key string) (int, error) {
	m := chapterKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, errors.Wrapf(ErrInvalidChapterNumber, "chapter key %q", key)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidChapterNumber, "chapter key %q", key)
	}
	return n, nil
}

// KeyNumber extracts the chapter number from a chapter map key, accepting
// conflict-renamed keys like "ch5-a1b2c3".
func KeyNumber(key string) (int, bool) {
	m := chapterKeyLoosePattern.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ConflictSuffix derives the short rename suffix for a contested chapter
// contribution: the last 6 hex characters of the author address, lower-cased.
// Stable and deterministic, but not collision-proof; the migration planner
// applies a secondary disambiguator when two suffixes collide.
func ConflictSuffix(address string) string {
	hex := strings.ToLower(strings.TrimPrefix(address, "0x"))
	if len(hex) <= 6 {
		return hex
	}
	return hex[len(hex)-6:]
}
