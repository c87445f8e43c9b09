package domain

import "strings"

const (
	previewBodyRows = 20
	previewRowToks  = 15
)

// TablePreview shows what the parser sees around a located table.
type TablePreview struct {
	AroundTitle []string   `json:"aroundTitle"`
	Header      string     `json:"header"`
	FirstRows   [][]string `json:"firstRows"`
}

// Preview locates the rainfall amounts table and returns the lines around its
// heading, the detected header line and the first body rows split into tokens.
func Preview(lines []string) (*TablePreview, error) {
	span, err := LocateTable(lines)
	if err != nil {
		return nil, err
	}
	p := &TablePreview{
		AroundTitle: lines[max(0, span.Heading-2):min(len(lines), span.Heading+3)],
		FirstRows:   [][]string{},
	}
	header := findColumnarHeader(lines, span)
	if header <= span.Heading || header >= span.End {
		return p, nil
	}
	p.Header = lines[header]
	for _, l := range lines[header+1 : span.End] {
		if len(p.FirstRows) == previewBodyRows {
			break
		}
		toks := strings.Fields(l)
		if len(toks) == 0 {
			continue
		}
		p.FirstRows = append(p.FirstRows, toks[:min(len(toks), previewRowToks)])
	}
	return p, nil
}
