// Package domain parses Environment and Climate Change Canada (ECCC) rainfall
// intensity-duration-frequency (IDF) text files into structured tables.
//
// # Data Source
//
// ECCC publishes one plain-text IDF file per station. Each file carries a
// station header (name, province, climate ID, coordinates) followed by
// several numbered tables. Only "Table 2a" (French "Tableau 2a"), the return
// period rainfall amounts in millimetres, is parsed here. Files are
// hand-edited and reformatted often enough that no single layout can be
// assumed, so the parser tries several orientations in a fixed order.
//
// # Table Conventions
//
// Durations:
//
//	Canonical minutes: 5, 10, 15, 30, 60, 120, 180, 240, 1440.
//	Tokens appear as "5 min", "10min", "1 h", "2 hr", "24-hr", "1 day",
//	or as bare numbers. A bare "24" or "1" means one day (1440 minutes).
//	Any token that does not reduce to a canonical duration is rejected.
//
// Return periods (years):
//
//	2, 5, 10, 25, 50, 100, always in this column order.
//
// Layouts seen in the wild:
//
//	Row-oriented: one line per duration, six depths left to right.
//	Return-period rows: one line per return period, nine depths.
//	Columnar: a header of durations, then one line per return period.
//	Wrapped: a duration line whose depths continue on following lines.
//
// # Output
//
// Depths are rounded to two decimals in millimetres. Intensities are derived
// from the rounded depth as depth*60/minutes, converted to in/hr for the
// imperial unit system, and rounded again. Cells that could not be read are
// omitted; the parser never fills a missing value.
package domain
