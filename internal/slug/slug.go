// Package slug generates URL-safe identifiers matching the backend's
// naming rule, so links the frontend builds resolve against backend slugs
// without a round-trip.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// Make converts free text into a slug: lowercase, punctuation stripped,
// whitespace runs hyphenated, leading and trailing hyphens trimmed.
// Returns the empty string when nothing slug-worthy remains.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prevHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
		// Everything else (punctuation, symbols) drops out entirely,
		// so "It's" becomes "its" rather than "it-s".
	}

	return strings.TrimRight(b.String(), "-")
}

// Slugger de-duplicates slugs within one document. Repeats of the same
// text get numeric suffixes: intro, intro-1, intro-2. Not safe for
// concurrent use; create one per rendered document.
type Slugger struct {
	seen map[string]int
}

// NewSlugger returns a Slugger with no history.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns a document-unique slug for text. Suffixed forms are
// themselves recorded, so a literal "intro-1" heading cannot collide
// with a generated one.
func (s *Slugger) Slug(text string) string {
	base := Make(text)
	if base == "" {
		base = "section"
	}

	if _, taken := s.seen[base]; !taken {
		s.seen[base] = 0
		return base
	}

	for {
		s.seen[base]++
		candidate := base + "-" + strconv.Itoa(s.seen[base])
		// The suffixed form may already exist as a literal heading.
		if _, taken := s.seen[candidate]; !taken {
			s.seen[candidate] = 0
			return candidate
		}
	}
}
