package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	bareNumberRe    = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	minutesTokenRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mins?|m)\b`)
	hoursTokenRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:h|hr|hrs|hour|hours)\b`)
	daysTokenRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:d|day|days)\b`)
	oneDayTokenRe   = regexp.MustCompile(`^(?:24\s*h(?:rs?)?|24-?hrs?|1\s*-?\s*(?:day|days|d))$`)
	looseDayTokenRe = regexp.MustCompile(`^24[^0-9]*h`)
	unitWordRe      = regexp.MustCompile(`(?i)^(?:mins?|m|h|hr|hrs|hour|hours|d|day|days)\.?$`)
	listSplitRe     = regexp.MustCompile(`[,\t;]+`)
)

// ParseDurationToken reduces a raw duration token such as "5 min", "2hr",
// "24-hr" or "1 day" to canonical minutes. Bare numbers are accepted when they
// are canonical minutes already; a bare 24 or 1 means one day. Tokens that do
// not reduce to a canonical duration are rejected.
func ParseDurationToken(tok string) (DurationMinutes, bool) {
	s := strings.ToLower(strings.TrimSpace(tok))
	if s == "" {
		return 0, false
	}

	if bareNumberRe.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		switch {
		case v == 24 || v == 1:
			return 1440, true
		case v == math.Trunc(v) && DurationMinutes(v).IsCanonical():
			return DurationMinutes(v), true
		}
		return 0, false
	}

	if v, ok := scaledMatch(minutesTokenRe, s, 1); ok {
		return canonical(v)
	}
	if v, ok := scaledMatch(hoursTokenRe, s, 60); ok {
		return canonical(v)
	}
	if v, ok := scaledMatch(daysTokenRe, s, 1440); ok {
		return canonical(v)
	}
	if oneDayTokenRe.MatchString(s) || looseDayTokenRe.MatchString(s) {
		return 1440, true
	}
	return 0, false
}

func scaledMatch(re *regexp.Regexp, s string, scale float64) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return math.Round(v * scale), true
}

func canonical(v float64) (DurationMinutes, bool) {
	d := DurationMinutes(v)
	if !d.IsCanonical() {
		return 0, false
	}
	return d, true
}

// normalizeFirstColumn maps a leading numeric cell to minutes. Hour values
// written as bare numbers are accepted here, and 0.5 means thirty minutes.
func normalizeFirstColumn(v float64) (DurationMinutes, bool) {
	if v == math.Trunc(v) && DurationMinutes(v).IsCanonical() {
		return DurationMinutes(v), true
	}
	switch v {
	case 1:
		return 1440, true
	case 2, 3, 4, 24:
		return DurationMinutes(v * 60), true
	case 0.5:
		return 30, true
	}
	return 0, false
}

// leadingDuration parses the duration at the head of a row. When the second
// token is a bare unit word it is consumed as well. It returns the index of the
// first value token.
func leadingDuration(toks []string) (DurationMinutes, int, bool) {
	if len(toks) == 0 {
		return 0, 0, false
	}
	if len(toks) > 1 && unitWordRe.MatchString(toks[1]) {
		d, ok := ParseDurationToken(toks[0] + " " + toks[1])
		return d, 2, ok
	}
	d, ok := ParseDurationToken(toks[0])
	return d, 1, ok
}

// tokenize splits a line on whitespace, retrying on commas, tabs and
// semicolons when fewer than four tokens result.
func tokenize(line string) []string {
	toks := strings.Fields(line)
	if len(toks) >= 4 {
		return toks
	}
	parts := listSplitRe.Split(strings.TrimSpace(line), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > len(toks) {
		return out
	}
	return toks
}

// parseNumber parses a finite decimal value.
func parseNumber(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// numbers returns the finite numeric tokens of a line in order.
func numbers(line string) []float64 {
	toks := tokenize(line)
	out := make([]float64, 0, len(toks))
	for _, t := range toks {
		if v, ok := parseNumber(t); ok {
			out = append(out, v)
		}
	}
	return out
}
