package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tableTwoHeadingRe = regexp.MustCompile(`(?i)table(?:au)?\s*2[ab]?`)
	amountsHeadingRe  = regexp.MustCompile(`(?i)rainfall amounts|precipitation`)
	tableBoundaryRe   = regexp.MustCompile(`(?i)^table(?:au)?\b`)
	tableLabelRe      = regexp.MustCompile(`(?i)^table(?:au)?\s*(\d+[a-z]?)`)
)

// TableSpan locates the rainfall amounts table within a document's lines.
// Heading is the index of the heading line; End is the exclusive index of the
// next table heading, or len(lines).
type TableSpan struct {
	Heading int
	End     int
}

// Body returns the lines between the heading and the end of the table.
func (s TableSpan) Body(lines []string) []string {
	return lines[s.Heading+1 : s.End]
}

// SplitLines normalizes line endings, strips a byte order mark and trims
// every line.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// foldAccents strips combining marks so "Précipitation" matches "precipitation".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// LocateTable finds the rainfall amounts table. A "Table 2a" style heading in
// English or French wins; failing that, the first line mentioning rainfall
// amounts or precipitation is used. The table ends at the next line starting
// with "table".
func LocateTable(lines []string) (TableSpan, error) {
	heading := -1
	for i, l := range lines {
		if tableTwoHeadingRe.MatchString(foldAccents(l)) {
			heading = i
			break
		}
	}
	if heading < 0 {
		for i, l := range lines {
			if amountsHeadingRe.MatchString(foldAccents(l)) {
				heading = i
				break
			}
		}
	}
	if heading < 0 {
		return TableSpan{}, ErrTableNotFound
	}
	return TableSpan{Heading: heading, End: tableEnd(lines, heading)}, nil
}

// tableEnd returns the index of the first line after heading that opens
// another table. A bilingual repeat of the same table label does not count.
func tableEnd(lines []string, heading int) int {
	label := tableLabel(lines[heading])
	for i := heading + 1; i < len(lines); i++ {
		if !tableBoundaryRe.MatchString(lines[i]) {
			continue
		}
		if label != "" && tableLabel(lines[i]) == label {
			continue
		}
		return i
	}
	return len(lines)
}

func tableLabel(line string) string {
	m := tableLabelRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}
