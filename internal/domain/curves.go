package domain

// Point is one (duration, intensity) pair of a curve. Y is nil where the
// table has no cell.
type Point struct {
	X int      `json:"x"`
	Y *float64 `json:"y"`
}

// Series is the intensity curve of one return period.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// CurveSet shapes a table for charting.
type CurveSet struct {
	Durations []int    `json:"durations"`
	Series    []Series `json:"series"`
}

// Curves flattens a table's intensities into one series per return period,
// sampled at every duration the table actually contains.
func Curves(t *RainfallTable) CurveSet {
	durs := t.Durations()
	cs := CurveSet{Durations: make([]int, len(durs)), Series: make([]Series, 0, len(ReturnPeriods))}
	for i, d := range durs {
		cs.Durations[i] = int(d)
	}
	for _, rp := range ReturnPeriods {
		row := t.IDF.Intensities[rp.Label()]
		s := Series{Name: rp.Label(), Points: make([]Point, len(durs))}
		for i, d := range durs {
			s.Points[i] = Point{X: int(d)}
			if v, ok := row[d.Label()]; ok {
				s.Points[i].Y = &v
			}
		}
		cs.Series = append(cs.Series, s)
	}
	return cs
}
