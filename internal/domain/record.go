package domain

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FileRecord is what an ECCC file name says about its station, e.g.
// idf_v3-30_2022_10_31_702_QC_702S006_BAGOTVILLE_A.txt.
type FileRecord struct {
	File      string `json:"file"`
	StationID string `json:"stationId,omitempty"`
	Province  string `json:"province,omitempty"`
	Name      string `json:"name"`
}

var (
	stationIDRe    = regexp.MustCompile(`(?i)([0-9]+S[0-9]+|[0-9]{6,})`)
	provinceCodeRe = regexp.MustCompile(`(?i)_(qc|on|bc|ab|mb|sk|ns|nb|nl|pe|yt|nt|nu)_`)
	versionDateRe  = regexp.MustCompile(`(?i)idf_v3[-_]?30[_-]\d{4}[_-]\d{2}[_-]\d{2}`)
	yearRangeRe    = regexp.MustCompile(`\d{4}-\d{4}`)
	separatorRe    = regexp.MustCompile(`[_\-.]+`)
	noiseWords     = map[string]bool{"RAIN": true, "PRECIP": true, "IDF": true, "INTENSITY": true, "TXT": true}
)

// ParseFileRecord guesses the station id, province and name from a file name.
// The name falls back to the file name when nothing is left after stripping.
func ParseFileRecord(name string) FileRecord {
	base := filepath.Base(name)
	rec := FileRecord{File: base}

	if m := stationIDRe.FindString(base); m != "" {
		rec.StationID = m
	}
	if m := provinceCodeRe.FindStringSubmatch(base); m != nil {
		rec.Province = strings.ToUpper(m[1])
	}

	guess := strings.TrimSuffix(base, filepath.Ext(base))
	guess = versionDateRe.ReplaceAllString(guess, "")
	guess = provinceCodeRe.ReplaceAllString(guess, "_")
	if rec.StationID != "" {
		guess = strings.ReplaceAll(guess, rec.StationID, "")
	}
	guess = yearRangeRe.ReplaceAllString(guess, "")

	var words []string
	for _, w := range strings.Fields(separatorRe.ReplaceAllString(guess, " ")) {
		if noiseWords[strings.ToUpper(w)] || isDigits(w) {
			continue
		}
		words = append(words, w)
	}
	rec.Name = strings.Join(words, " ")
	if rec.Name == "" {
		rec.Name = base
	}
	return rec
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
