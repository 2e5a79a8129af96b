package markup

import (
	"bytes"
	"regexp"
	"strings"
)

var (
	admonitionOpen  = regexp.MustCompile(`^(:{3,})([A-Za-z][\w-]*)(?:\s+(.*?))?\s*$`)
	admonitionClose = regexp.MustCompile(`^:{3,}\s*$`)
	fenceLine       = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})")
)

// PrepareSource isolates ":::" directive lines into their own paragraphs so
// the converter can group admonitions on block boundaries. Fenced code is left
// untouched.
func PrepareSource(source []byte) []byte {
	lines := bytes.SplitAfter(source, []byte("\n"))
	var out bytes.Buffer
	out.Grow(len(source) + 64)

	var fence string
	for _, line := range lines {
		trimmed := strings.TrimRight(string(line), "\r\n")

		if m := fenceLine.FindStringSubmatch(trimmed); m != nil {
			marker := m[1]
			switch {
			case fence == "":
				fence = marker
			case marker[0] == fence[0] && len(marker) >= len(fence) && strings.TrimSpace(trimmed) == marker:
				fence = ""
			}
			out.Write(line)
			continue
		}

		if fence == "" && isDirectiveLine(strings.TrimSpace(trimmed)) {
			out.WriteString("\n")
			out.WriteString(trimmed)
			out.WriteString("\n\n")
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}

func isDirectiveLine(line string) bool {
	return admonitionOpen.MatchString(line) || admonitionClose.MatchString(line)
}

// parseAdmonitionOpen splits ":::tip Title" into its type and title.
func parseAdmonitionOpen(line string) (kind, title string, ok bool) {
	m := admonitionOpen.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[2]), strings.TrimSpace(m[3]), true
}

func isAdmonitionClose(line string) bool {
	return admonitionClose.MatchString(strings.TrimSpace(line))
}
