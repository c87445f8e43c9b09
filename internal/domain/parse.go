package domain

import (
	"strings"
)

// ParseDocument extracts the rainfall amounts table from an IDF text file.
//
// Layouts are tried in order, stopping at the first that yields any cell:
// duration rows (with wrapped continuation lines filling cells the row left
// empty), return-period rows, purely numeric duration rows, and finally
// wrapped rows on their own. ErrTableNotFound is returned when no heading is
// present; a *ParseError when no layout yields a cell.
func ParseDocument(text string, us UnitSystem) (*RainfallTable, error) {
	lines := SplitLines(text)
	span, err := LocateTable(lines)
	if err != nil {
		return nil, err
	}
	return parseBody(span.Body(lines), us)
}

// ParseColumnar extracts the table assuming durations run across a header
// row and return periods down the first column. When fewer than three
// duration columns can be identified it falls back to ParseDocument's layouts.
func ParseColumnar(text string, us UnitSystem) (*RainfallTable, error) {
	lines := SplitLines(text)
	span, err := LocateTable(lines)
	if err != nil {
		return nil, err
	}
	header := findColumnarHeader(lines, span)
	if header <= span.Heading || header >= span.End {
		return parseBody(span.Body(lines), us)
	}
	cols := durationColumns(lines[header])
	if len(cols) < minDurationCols {
		return parseBody(span.Body(lines), us)
	}

	body := lines[header+1 : span.End]
	b := newTableBuilder(us)
	for _, line := range body {
		toks := tokenize(line)
		if len(toks) < 2 {
			continue
		}
		rp, ok := parseReturnPeriod(toks[0])
		if !ok {
			continue
		}
		for _, c := range cols {
			idx := c.Ordinal + 1
			if idx >= len(toks) {
				break
			}
			if v, ok := parseNumber(toks[idx]); ok {
				b.set(rp, c.Duration, v)
			}
		}
	}
	if b.cells() == 0 {
		return nil, &ParseError{Preview: previewLines(body, previewRows)}
	}
	return b.table(StrategyColumnar), nil
}

func parseBody(body []string, us UnitSystem) (*RainfallTable, error) {
	b := newTableBuilder(us)
	widths := extractRows(body, b)
	if b.cells() > 0 {
		before := b.cells()
		fillWrapped(body, b, widths)
		if b.cells() > before {
			return b.table(StrategyWrapped), nil
		}
		return b.table(StrategyRows), nil
	}

	b = newTableBuilder(us)
	extractReturnPeriodRows(body, b)
	if b.cells() > 0 {
		return b.table(StrategyRPRows), nil
	}

	b = newTableBuilder(us)
	extractFirstColumn(body, b)
	if b.cells() > 0 {
		return b.table(StrategyFirstColumn), nil
	}

	b = newTableBuilder(us)
	fillWrapped(body, b, nil)
	if b.cells() > 0 {
		return b.table(StrategyWrapped), nil
	}
	return nil, &ParseError{Preview: previewLines(body, previewRows)}
}

// parseReturnPeriod reads a return-period label such as "2", "25yr" or "100-yr".
func parseReturnPeriod(tok string) (ReturnPeriod, bool) {
	s := strings.ToLower(tok)
	for _, suffix := range []string{"years", "year", "yrs", "yr", "ans", "an"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	s = strings.TrimRight(s, "- ")
	v, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	rp := ReturnPeriod(v)
	if float64(rp) != v || !rp.IsStandard() {
		return 0, false
	}
	return rp, true
}
