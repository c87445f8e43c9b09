package domain

import (
	"math"
	"regexp"
	"strings"
)

const (
	minRowTokens        = 3
	minRPRowNumbers     = 9
	minFirstColNumbers  = 7
	maxFirstColRows     = 9
	previewRows         = 15
	usabilityScanLines  = 40
	minSubDailyDuration = 3
)

var nonNumericRe = regexp.MustCompile(`[^\d.+-]`)

// extractRows reads one duration per line, six return-period depths left to
// right. Value tokens that are not numbers keep their column. It returns how
// many value tokens each duration's line carried.
func extractRows(body []string, b *tableBuilder) map[DurationMinutes]int {
	widths := map[DurationMinutes]int{}
	for _, line := range body {
		toks := tokenize(line)
		if len(toks) < minRowTokens {
			continue
		}
		d, start, ok := leadingDuration(toks)
		if !ok {
			continue
		}
		vals := toks[start:]
		if _, seen := widths[d]; !seen {
			widths[d] = len(vals)
		}
		for i, tok := range vals {
			if i >= len(ReturnPeriods) {
				break
			}
			if v, ok := parseNumber(tok); ok {
				b.set(ReturnPeriods[i], d, v)
			}
		}
	}
	return widths
}

// extractReturnPeriodRows reads one return period per line, nine duration
// depths left to right. A leading return-period label is honored when the row
// carries one extra number; otherwise rows are taken in return-period order.
func extractReturnPeriodRows(body []string, b *tableBuilder) {
	row := 0
	for _, line := range body {
		if row >= len(ReturnPeriods) {
			return
		}
		v := numbers(line)
		if len(v) < minRPRowNumbers {
			continue
		}
		rp := ReturnPeriods[row]
		if len(v) > len(CanonicalDurations) && v[0] == math.Trunc(v[0]) && ReturnPeriod(v[0]).IsStandard() {
			rp = ReturnPeriod(v[0])
			v = v[1:]
		}
		for i, d := range CanonicalDurations {
			b.set(rp, d, v[i])
		}
		row++
	}
}

// extractFirstColumn reads purely numeric rows whose first number is a
// duration, accepting bare hours and 0.5 for thirty minutes.
func extractFirstColumn(body []string, b *tableBuilder) {
	rows := 0
	for _, line := range body {
		if rows >= maxFirstColRows {
			return
		}
		v := numbers(line)
		if len(v) < minFirstColNumbers {
			continue
		}
		d, ok := normalizeFirstColumn(v[0])
		if !ok {
			continue
		}
		for i, rp := range ReturnPeriods {
			b.set(rp, d, v[1+i])
		}
		rows++
	}
}

// accumulateWrapped collects depths for durations whose values continue on
// following lines. A line that opens with a duration starts that duration's
// list; purely numeric lines append to the most recent one. Lines before the
// first duration and lines with any other token, such as "+/- 0.6" confidence
// limits or unit captions, are ignored. Only the first six values per
// duration are kept.
func accumulateWrapped(body []string) ([]DurationMinutes, map[DurationMinutes][]float64) {
	var (
		order  []DurationMinutes
		values = map[DurationMinutes][]float64{}
		cur    DurationMinutes
		locked bool
	)
	for _, line := range body[findWrappedHeader(body)+1:] {
		toks := strings.Fields(line)
		if len(toks) == 0 {
			continue
		}
		d, next, ok := leadingDuration(toks)
		if !ok {
			if !locked {
				continue
			}
			if cont, ok := continuationValues(toks); ok {
				values[cur] = append(values[cur], cont...)
			}
			continue
		}
		cur, locked = d, true
		if _, seen := values[d]; !seen {
			order = append(order, d)
			values[d] = nil
		}
		for _, tok := range toks[next:] {
			cleaned := nonNumericRe.ReplaceAllString(tok, "")
			if cleaned == "" {
				continue
			}
			if v, ok := parseNumber(cleaned); ok {
				values[cur] = append(values[cur], v)
			}
		}
	}
	for d, vs := range values {
		if len(vs) > len(ReturnPeriods) {
			values[d] = vs[:len(ReturnPeriods)]
		}
	}
	return order, values
}

// continuationValues returns the numbers of a line whose every token is a
// number. Trailing list separators are allowed.
func continuationValues(toks []string) ([]float64, bool) {
	out := make([]float64, 0, len(toks))
	for _, tok := range toks {
		v, ok := parseNumber(strings.TrimRight(tok, ",;"))
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// fillWrapped writes accumulated values into cells that are still empty.
// When widths is non-nil only durations whose single line carried fewer than
// six values are considered wrapped.
func fillWrapped(body []string, b *tableBuilder, widths map[DurationMinutes]int) {
	order, values := accumulateWrapped(body)
	for _, d := range order {
		if w, seen := widths[d]; widths != nil && seen && w >= len(ReturnPeriods) {
			continue
		}
		for i, v := range values[d] {
			b.set(ReturnPeriods[i], d, v)
		}
	}
}

// previewLines returns the first n non-blank lines.
func previewLines(body []string, n int) []string {
	out := make([]string, 0, n)
	for _, l := range body {
		if len(out) == n {
			break
		}
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
