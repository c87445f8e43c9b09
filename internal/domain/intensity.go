package domain

import "math"

// mmToInch converts millimetres to inches.
const mmToInch = 0.0393701

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Intensity converts a depth over a duration to a rate, rounded to two decimals.
// Metric results are mm/hr; imperial results are in/hr.
func Intensity(depthMM float64, d DurationMinutes, us UnitSystem) float64 {
	rate := depthMM * 60 / float64(d)
	if us == Imperial {
		rate *= mmToInch
	}
	return Round2(rate)
}

// tableBuilder accumulates cells into paired grids. Only the first value
// written to a cell is kept.
type tableBuilder struct {
	units  UnitSystem
	depths Grid
	rates  Grid
}

func newTableBuilder(us UnitSystem) *tableBuilder {
	return &tableBuilder{units: us, depths: newGrid(), rates: newGrid()}
}

// set records a depth unless the cell is already filled or the value is not finite.
func (b *tableBuilder) set(rp ReturnPeriod, d DurationMinutes, depth float64) bool {
	if math.IsNaN(depth) || math.IsInf(depth, 0) || !rp.IsStandard() || !d.IsCanonical() {
		return false
	}
	row := b.depths[rp.Label()]
	if _, ok := row[d.Label()]; ok {
		return false
	}
	rounded := Round2(depth)
	row[d.Label()] = rounded
	b.rates[rp.Label()][d.Label()] = Intensity(rounded, d, b.units)
	return true
}

func (b *tableBuilder) cells() int { return b.depths.Cells() }

func (b *tableBuilder) table(s Strategy) *RainfallTable {
	return &RainfallTable{
		IDF:      IDF{DepthsMM: b.depths, Intensities: b.rates},
		Units:    UnitsFor(b.units),
		System:   b.units,
		Strategy: s,
	}
}
