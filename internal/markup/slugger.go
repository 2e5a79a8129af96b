package markup

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugger assigns heading anchors using the GitHub algorithm: lowercase,
// drop punctuation and symbols except '-' and '_', turn spaces into '-', and
// suffix repeats with -1, -2 and so on. A Slugger is scoped to one page.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: map[string]int{}}
}

// Slug returns a unique anchor for value.
func (s *Slugger) Slug(value string) string {
	base := Slugify(value)
	result := base
	for {
		if _, taken := s.occurrences[result]; !taken {
			break
		}
		s.occurrences[base]++
		result = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[result] = 0
	return result
}

// Reserve marks an explicit id as used so generated anchors never collide
// with it. It reports false when id was already taken.
func (s *Slugger) Reserve(id string) bool {
	if _, taken := s.occurrences[id]; taken {
		return false
	}
	s.occurrences[id] = 0
	return true
}

// Slugify applies the anchor transform without tracking duplicates.
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r) || unicode.Is(unicode.M, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
