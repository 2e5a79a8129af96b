package sidebar

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var numberPrefix = regexp.MustCompile(`^(\d+)\s*[-_.]+\s*`)

// StripNumberPrefix removes an ordering prefix such as "01-" from name and
// returns the prefix as a position. Names that are only digits keep them.
func StripNumberPrefix(name string) (string, *float64) {
	m := numberPrefix.FindStringSubmatchIndex(name)
	if m == nil || m[1] >= len(name) {
		return name, nil
	}
	value, err := strconv.ParseFloat(name[m[2]:m[3]], 64)
	if err != nil {
		return name, nil
	}
	return name[m[1]:], &value
}

// StripPathNumberPrefixes applies StripNumberPrefix to every segment of a
// slash separated path.
func StripPathNumberPrefixes(p string) string {
	if p == "" || p == "." {
		return p
	}
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i], _ = StripNumberPrefix(segment)
	}
	return strings.Join(segments, "/")
}

// Humanize turns a directory name into a label: "getting-started" reads
// "Getting Started".
func Humanize(name string) string {
	stripped, _ := StripNumberPrefix(name)
	words := strings.FieldsFunc(stripped, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
