package domain

import (
	"regexp"
	"strings"
)

// columnarHeaderPatterns recognize a header row listing durations left to right.
var columnarHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`5[^0-9]+10[^0-9]+15[^0-9]+30[^0-9]+60`),
	regexp.MustCompile(`(?i)5\s*min.*10\s*min.*15\s*min`),
	regexp.MustCompile(`(?i)1\s*hr?\b.*2\s*hr?\b`),
}

var durationWordRe = regexp.MustCompile(`(?i)\b(?:duration|duree|min|h|hr|hour|hours|day)\b`)

const (
	headerSearchLines = 30
	headerProbeLines  = 6
	minDurationCols   = 3
)

// durationColumn is a duration found in a header row; Ordinal is its position
// among the header's durations.
type durationColumn struct {
	Duration DurationMinutes
	Ordinal  int
}

// findColumnarHeader returns the index of the line naming the table's
// duration columns. Strong header patterns are searched first within
// headerSearchLines of the heading, then the first lines of the body for any
// line carrying at least minDurationCols duration tokens. When neither is
// found the first body line is returned.
func findColumnarHeader(lines []string, span TableSpan) int {
	limit := min(span.Heading+headerSearchLines, span.End)
	for i := span.Heading + 1; i < limit; i++ {
		if isColumnarHeader(lines[i]) {
			return i
		}
	}
	probe := min(span.Heading+1+headerProbeLines, span.End)
	for i := span.Heading + 1; i < probe; i++ {
		if len(durationColumns(lines[i])) >= minDurationCols {
			return i
		}
	}
	return min(span.Heading+1, len(lines)-1)
}

func isColumnarHeader(line string) bool {
	for _, re := range columnarHeaderPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// durationColumns parses the duration tokens of a header row in order. A unit
// word directly after a number belongs to that number.
func durationColumns(line string) []durationColumn {
	toks := strings.Fields(line)
	var cols []durationColumn
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if i+1 < len(toks) && unitWordRe.MatchString(toks[i+1]) && bareNumberRe.MatchString(tok) {
			tok += " " + toks[i+1]
			i++
		}
		if d, ok := ParseDurationToken(tok); ok {
			cols = append(cols, durationColumn{Duration: d, Ordinal: len(cols)})
		}
	}
	return cols
}

// findWrappedHeader returns the index within body of the first of the leading
// lines that names durations without itself being a data row, or -1.
func findWrappedHeader(body []string) int {
	for i := 0; i < len(body) && i < headerProbeLines; i++ {
		if !durationWordRe.MatchString(foldAccents(body[i])) {
			continue
		}
		if _, _, ok := leadingDuration(strings.Fields(body[i])); ok {
			continue
		}
		return i
	}
	return -1
}
