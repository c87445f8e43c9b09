package domain

import (
	"slices"
	"strconv"
	"strings"
)

// DurationMinutes is a rainfall duration expressed in minutes.
type DurationMinutes int

// Label formats the duration as a table key, e.g. "5 min".
func (d DurationMinutes) Label() string { return strconv.Itoa(int(d)) + " min" }

// IsCanonical reports whether d is one of the nine tabulated durations.
func (d DurationMinutes) IsCanonical() bool { return slices.Contains(CanonicalDurations, d) }

// ReturnPeriod is a recurrence interval in years.
type ReturnPeriod int

// Label formats the return period as a table key, e.g. "2yr".
func (rp ReturnPeriod) Label() string { return strconv.Itoa(int(rp)) + "yr" }

// IsStandard reports whether rp is one of the six tabulated return periods.
func (rp ReturnPeriod) IsStandard() bool { return slices.Contains(ReturnPeriods, rp) }

// CanonicalDurations lists the tabulated durations in column order.
var CanonicalDurations = []DurationMinutes{5, 10, 15, 30, 60, 120, 180, 240, 1440}

// ReturnPeriods lists the tabulated return periods in column order.
var ReturnPeriods = []ReturnPeriod{2, 5, 10, 25, 50, 100}

// UnitSystem selects the unit intensities are reported in.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// ParseUnitSystem normalizes a case-insensitive unit system name.
// An empty string selects Metric.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Metric):
		return Metric, nil
	case string(Imperial):
		return Imperial, nil
	default:
		return "", ErrInvalidUnitSystem
	}
}

// Units names the units of a table's two grids.
type Units struct {
	Depths      string `json:"depths"`
	Intensities string `json:"intensities"`
}

// UnitsFor returns the unit labels for the given unit system.
func UnitsFor(us UnitSystem) Units {
	if us == Imperial {
		return Units{Depths: "mm", Intensities: "in/hr"}
	}
	return Units{Depths: "mm", Intensities: "mm/hr"}
}

// Grid maps a return period label to duration labels to a value.
// Every return period label is present; absent cells are omitted.
type Grid map[string]map[string]float64

func newGrid() Grid {
	g := make(Grid, len(ReturnPeriods))
	for _, rp := range ReturnPeriods {
		g[rp.Label()] = map[string]float64{}
	}
	return g
}

// Cells counts the populated cells.
func (g Grid) Cells() int {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	return n
}

func (g Grid) clone() Grid {
	out := make(Grid, len(g))
	for rp, row := range g {
		cp := make(map[string]float64, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[rp] = cp
	}
	return out
}

// IDF holds the paired depth and intensity grids.
type IDF struct {
	DepthsMM    Grid `json:"depths_mm"`
	Intensities Grid `json:"intensities"`
}

// Strategy names the layout that produced a table.
type Strategy string

const (
	StrategyRows        Strategy = "rows"
	StrategyWrapped     Strategy = "wrapped"
	StrategyRPRows      Strategy = "return_period_rows"
	StrategyFirstColumn Strategy = "first_column"
	StrategyColumnar    Strategy = "columnar"
)

// RainfallTable is a parsed IDF table. Tables handed out by caches are shared;
// callers that need to modify one must Clone it first.
type RainfallTable struct {
	IDF      IDF        `json:"idf"`
	Units    Units      `json:"units"`
	System   UnitSystem `json:"-"`
	Strategy Strategy   `json:"-"`
}

// Clone returns a deep copy of t.
func (t *RainfallTable) Clone() *RainfallTable {
	cp := *t
	cp.IDF = IDF{DepthsMM: t.IDF.DepthsMM.clone(), Intensities: t.IDF.Intensities.clone()}
	return &cp
}

// Durations returns the distinct durations present in the depth grid, ascending.
func (t *RainfallTable) Durations() []DurationMinutes {
	seen := map[DurationMinutes]bool{}
	for _, row := range t.IDF.DepthsMM {
		for label := range row {
			if d, ok := parseDurationLabel(label); ok {
				seen[d] = true
			}
		}
	}
	out := make([]DurationMinutes, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

func parseDurationLabel(label string) (DurationMinutes, bool) {
	n, err := strconv.Atoi(strings.TrimSuffix(label, " min"))
	if err != nil {
		return 0, false
	}
	return DurationMinutes(n), true
}
