package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Province codes used in ECCC file names and headers.
var provinceNames = map[string]string{
	"QC": "QC", "QUEBEC": "QC",
	"ON": "ON", "ONTARIO": "ON",
	"BC": "BC", "BRITISH COLUMBIA": "BC", "COLOMBIE-BRITANNIQUE": "BC",
	"AB": "AB", "ALBERTA": "AB",
	"MB": "MB", "MANITOBA": "MB",
	"SK": "SK", "SASKATCHEWAN": "SK",
	"NS": "NS", "NOVA SCOTIA": "NS", "NOUVELLE-ECOSSE": "NS",
	"NB": "NB", "NEW BRUNSWICK": "NB", "NOUVEAU-BRUNSWICK": "NB",
	"NL": "NL", "NEWFOUNDLAND": "NL", "NEWFOUNDLAND AND LABRADOR": "NL", "TERRE-NEUVE-ET-LABRADOR": "NL",
	"PE": "PE", "PEI": "PE", "PRINCE EDWARD ISLAND": "PE", "ILE-DU-PRINCE-EDOUARD": "PE",
	"YT": "YT", "YUKON": "YT",
	"NT": "NT", "NORTHWEST TERRITORIES": "NT", "TERRITOIRES DU NORD-OUEST": "NT",
	"NU": "NU", "NUNAVUT": "NU",
}

// NormalizeProvince maps a province code or name, in English or French, to
// its two-letter code. Unknown input returns "".
func NormalizeProvince(s string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(foldAccents(s)), " "))
	return provinceNames[key]
}

var (
	stationLineRe = regexp.MustCompile(`^(\S.*?)\s{2,}([A-Za-z][A-Za-z .'-]*?)\s{2,}([0-9][0-9A-Z]{4,7})$`)
	latLonRe      = regexp.MustCompile(`Latitude:\s*(\d+)\s*(\d+(?:\.\d+)?)'\s*([NS])\s*Longitude:\s*(\d+)\s*(\d+(?:\.\d+)?)'\s*([EW])`)
)

// StationMeta is the station description found in a file's preamble.
// Fields that could not be read are left zero.
type StationMeta struct {
	Name      string  `json:"name,omitempty"`
	Province  string  `json:"province,omitempty"`
	ClimateID string  `json:"climate_id,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
}

// HasCoords reports whether a position was read.
func (m StationMeta) HasCoords() bool { return m.Lat != 0 || m.Lon != 0 }

// ParseStationHeader reads the station line ("NAME  PROVINCE  CLIMATE_ID")
// and the degree-minute coordinates from the lines preceding the rainfall
// table, or from the whole document when no table is present.
func ParseStationHeader(lines []string) StationMeta {
	preamble := lines
	if span, err := LocateTable(lines); err == nil {
		preamble = lines[:span.Heading]
	}

	var meta StationMeta
	for _, l := range preamble {
		m := stationLineRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		prov := NormalizeProvince(m[2])
		if prov == "" {
			continue
		}
		meta.Name = strings.TrimSpace(m[1])
		meta.Province = prov
		meta.ClimateID = m[3]
		break
	}

	if m := latLonRe.FindStringSubmatch(strings.Join(preamble, "\n")); m != nil {
		meta.Lat = degreesMinutes(m[1], m[2], m[3] == "S")
		meta.Lon = degreesMinutes(m[4], m[5], m[6] == "W")
	}
	return meta
}

func degreesMinutes(deg, minutes string, negate bool) float64 {
	d, _ := strconv.ParseFloat(deg, 64)
	m, _ := strconv.ParseFloat(minutes, 64)
	v := d + m/60
	if negate {
		v = -v
	}
	return math.Round(v*1e4) / 1e4
}

// HasSubDailyDurations reports whether the rainfall table lists at least
// three durations shorter than a day within its first lines.
func HasSubDailyDurations(lines []string) bool {
	span, err := LocateTable(lines)
	if err != nil {
		return false
	}
	count := 0
	for _, l := range lines[span.Heading:min(len(lines), span.Heading+usabilityScanLines)] {
		if subDailyColumns(l) >= minSubDailyDuration {
			return true
		}
		d, _, ok := leadingDuration(tokenize(l))
		if ok && d < 1440 {
			count++
			if count >= minSubDailyDuration {
				return true
			}
		}
	}
	return false
}

// subDailyColumns counts the sub-daily durations of a columnar header line.
func subDailyColumns(line string) int {
	if !isColumnarHeader(line) {
		return 0
	}
	n := 0
	for _, c := range durationColumns(line) {
		if c.Duration < 1440 {
			n++
		}
	}
	return n
}
