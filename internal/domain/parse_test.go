package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

const bareDurationTable = `Table 2A
5 2.1 3.4 4.5 5.2 6.8 8.1
10 3.2 4.9 6.0 7.4 8.5 9.6
15 4.0 6.1 7.5 9.2 10.5 11.8
30 5.3 7.9 9.6 11.8 13.4 15.0
60 6.6 9.7 11.8 14.4 16.4 18.3
120 7.9 11.5 13.9 16.9 19.1 21.3
180 8.6 12.5 15.1 18.3 20.7 23.1
240 9.1 13.2 16.0 19.4 21.9 24.4
1440 10.2 15.3 20.1 25.0 30.4 38.2
`

func TestParseDocument_BareDurations(t *testing.T) {
	table, err := ParseDocument(bareDurationTable, Metric)
	require.NoError(t, err)

	assert.Equal(t, StrategyRows, table.Strategy)
	assert.Equal(t, 2.1, table.IDF.DepthsMM["2yr"]["5 min"])
	assert.Equal(t, 38.2, table.IDF.DepthsMM["100yr"]["1440 min"])
	assert.InDelta(t, 25.2, table.IDF.Intensities["2yr"]["5 min"], 1e-9)
	assert.Equal(t, 54, table.IDF.DepthsMM.Cells())
	assert.Equal(t, Units{Depths: "mm", Intensities: "mm/hr"}, table.Units)
}

func TestParseDocument_ECCC(t *testing.T) {
	text := loadFixture(t, "eccc_table2a.txt")

	t.Run("metric", func(t *testing.T) {
		table, err := ParseDocument(text, Metric)
		require.NoError(t, err)

		assert.Equal(t, StrategyRows, table.Strategy)
		assert.Equal(t, 54, table.IDF.DepthsMM.Cells())
		assert.Equal(t, 7.1, table.IDF.DepthsMM["2yr"]["5 min"])
		assert.Equal(t, 20.0, table.IDF.DepthsMM["2yr"]["60 min"])
		assert.Equal(t, 97.9, table.IDF.DepthsMM["100yr"]["1440 min"])
		assert.InDelta(t, 85.2, table.IDF.Intensities["2yr"]["5 min"], 1e-9)
		assert.InDelta(t, 4.08, table.IDF.Intensities["100yr"]["1440 min"], 1e-9)

		for _, row := range table.IDF.DepthsMM {
			assert.NotContains(t, row, "360 min", "six hour rows are not tabulated")
		}
	})

	t.Run("imperial", func(t *testing.T) {
		table, err := ParseDocument(text, Imperial)
		require.NoError(t, err)

		assert.Equal(t, 7.1, table.IDF.DepthsMM["2yr"]["5 min"])
		assert.InDelta(t, 3.35, table.IDF.Intensities["2yr"]["5 min"], 1e-9)
		assert.InDelta(t, 0.16, table.IDF.Intensities["100yr"]["1440 min"], 1e-9)
		assert.Equal(t, Units{Depths: "mm", Intensities: "in/hr"}, table.Units)
	})
}

func TestParseDocument_French(t *testing.T) {
	table, err := ParseDocument(loadFixture(t, "french.txt"), Metric)
	require.NoError(t, err)

	assert.Equal(t, 18, table.IDF.DepthsMM.Cells())
	assert.Equal(t, 8.0, table.IDF.DepthsMM["2yr"]["5 min"])
	assert.Equal(t, 105.2, table.IDF.DepthsMM["100yr"]["1440 min"])
	assert.InDelta(t, 96.0, table.IDF.Intensities["2yr"]["5 min"], 1e-9)
}

func TestParseDocument_Wrapped(t *testing.T) {
	table, err := ParseDocument(loadFixture(t, "wrapped.txt"), Metric)
	require.NoError(t, err)

	assert.Equal(t, StrategyWrapped, table.Strategy)
	assert.Equal(t, 18, table.IDF.DepthsMM.Cells())

	want := map[string]float64{"2yr": 7.1, "5yr": 9.6, "10yr": 11.3, "25yr": 13.4, "50yr": 16.0, "100yr": 16.5}
	for rp, v := range want {
		assert.Equal(t, v, table.IDF.DepthsMM[rp]["5 min"], rp)
	}
	assert.Equal(t, 24.9, table.IDF.DepthsMM["100yr"]["10 min"])
	assert.Equal(t, 45.4, table.IDF.DepthsMM["100yr"]["60 min"])
}

func TestParseDocument_WrappedOnly(t *testing.T) {
	table, err := ParseDocument("Table 2a\n5 min\n7.1 9.6 11.3\n13.4 16.0 16.5 99.9", Metric)
	require.NoError(t, err)

	assert.Equal(t, StrategyWrapped, table.Strategy)
	assert.Equal(t, 6, table.IDF.DepthsMM.Cells())
	assert.Equal(t, 16.5, table.IDF.DepthsMM["100yr"]["5 min"])
}

func TestParseDocument_ConfidenceLinesAreNotContinuations(t *testing.T) {
	text := "Table 2a : Return Period Rainfall Amounts (mm)\n" +
		"5 min 7.1 9.6 11.3 13.4 15.0\n" +
		"+/- 0.6 +/- 1.0 +/- 1.3 +/- 1.7 +/- 2.0 +/- 2.3\n" +
		"10 min 10.4 14.3 16.9 20.1 22.5 24.9\n" +
		"+/- 0.9 +/- 1.4 +/- 1.8 +/- 2.4 +/- 2.8 +/- 3.2\n"

	table, err := ParseDocument(text, Metric)
	require.NoError(t, err)

	assert.Equal(t, StrategyRows, table.Strategy)
	assert.Equal(t, 11, table.IDF.DepthsMM.Cells())
	assert.Equal(t, 15.0, table.IDF.DepthsMM["50yr"]["5 min"])
	assert.NotContains(t, table.IDF.DepthsMM["100yr"], "5 min")
	assert.NotContains(t, table.IDF.Intensities["100yr"], "5 min")
	assert.Equal(t, 24.9, table.IDF.DepthsMM["100yr"]["10 min"])
}

func TestParseDocument_WrappedSkipsCaptionLines(t *testing.T) {
	text := "Table 2a\n" +
		"5 min 7.1 9.6 11.3\n" +
		"yr/ans yr/ans yr/ans\n" +
		"13.4 16.0 16.5\n"

	table, err := ParseDocument(text, Metric)
	require.NoError(t, err)

	assert.Equal(t, StrategyWrapped, table.Strategy)
	assert.Equal(t, 6, table.IDF.DepthsMM.Cells())
	assert.Equal(t, 13.4, table.IDF.DepthsMM["25yr"]["5 min"])
}

func TestParseDocument_ReturnPeriodRows(t *testing.T) {
	table, err := ParseDocument(loadFixture(t, "rp_rows.txt"), Metric)
	require.NoError(t, err)

	assert.Equal(t, StrategyRPRows, table.Strategy)
	assert.Equal(t, 54, table.IDF.DepthsMM.Cells())
	assert.Equal(t, 7.1, table.IDF.DepthsMM["2yr"]["5 min"])
	assert.Equal(t, 48.2, table.IDF.DepthsMM["2yr"]["1440 min"])
	assert.Equal(t, 15.1, table.IDF.DepthsMM["50yr"]["5 min"])
	assert.Equal(t, 60.6, table.IDF.DepthsMM["100yr"]["240 min"])
}

func TestExtractReturnPeriodRows_Labelled(t *testing.T) {
	b := newTableBuilder(Metric)
	extractReturnPeriodRows([]string{"100 16.5 24.9 29.8 38.1 45.4 53.0 57.1 60.6 97.9"}, b)

	assert.Equal(t, 9, b.cells())
	assert.Equal(t, 16.5, b.depths["100yr"]["5 min"])
	assert.Equal(t, 97.9, b.depths["100yr"]["1440 min"])
	assert.Empty(t, b.depths["2yr"])
}

func TestParseDocument_FirstColumnHours(t *testing.T) {
	text := strings.Join([]string{
		"Table 2a",
		"0.5,16.3,22.1,26.0,30.9,34.5,38.1",
		"2,24.9,32.4,37.4,43.7,48.4,53.0",
		"3,27.8,35.6,40.8,47.4,52.3,57.1",
		"4,30.1,38.3,43.7,50.5,55.6,60.6",
	}, "\n")

	table, err := ParseDocument(text, Metric)
	require.NoError(t, err)

	assert.Equal(t, StrategyFirstColumn, table.Strategy)
	assert.Equal(t, 24, table.IDF.DepthsMM.Cells())
	assert.Equal(t, 16.3, table.IDF.DepthsMM["2yr"]["30 min"])
	assert.Equal(t, 53.0, table.IDF.DepthsMM["100yr"]["120 min"])
	assert.Equal(t, 60.6, table.IDF.DepthsMM["100yr"]["240 min"])
}

func TestParseDocument_MissingCellsStayAbsent(t *testing.T) {
	table, err := ParseDocument("Table 2a\n5 min 7.1 - 11.3 13.4 15.0 16.5", Metric)
	require.NoError(t, err)

	assert.Equal(t, 5, table.IDF.DepthsMM.Cells())
	assert.NotContains(t, table.IDF.DepthsMM["5yr"], "5 min")
	assert.NotContains(t, table.IDF.Intensities["5yr"], "5 min")
	assert.Equal(t, 11.3, table.IDF.DepthsMM["10yr"]["5 min"])
	for _, rp := range ReturnPeriods {
		assert.Contains(t, table.IDF.DepthsMM, rp.Label())
	}
}

func TestParseDocument_FirstValueWins(t *testing.T) {
	table, err := ParseDocument("Table 2a\n24 h 1 2 3 4 5 6\n1 7 8 9 10 11 12", Metric)
	require.NoError(t, err)

	assert.Equal(t, 1.0, table.IDF.DepthsMM["2yr"]["1440 min"])
	assert.Equal(t, 6.0, table.IDF.DepthsMM["100yr"]["1440 min"])
}

func TestParseDocument_Errors(t *testing.T) {
	t.Run("table not found", func(t *testing.T) {
		_, err := ParseDocument("Table 1 : Annual Maximum\n1963 6.1 8.9", Metric)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("zero cells", func(t *testing.T) {
		_, err := ParseDocument("Table 2a\nnothing useful here\n\nfoo bar baz", Metric)
		require.ErrorIs(t, err, ErrParseFailure)

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, []string{"nothing useful here", "foo bar baz"}, perr.Preview)
	})

	t.Run("preview is capped", func(t *testing.T) {
		text := "Table 2a\n" + strings.Repeat("x y z\n", 40)
		_, err := ParseDocument(text, Metric)

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Len(t, perr.Preview, 15)
	})
}

func TestParseDocument_Idempotent(t *testing.T) {
	text := loadFixture(t, "eccc_table2a.txt")
	first, err := ParseDocument(text, Imperial)
	require.NoError(t, err)
	second, err := ParseDocument(text, Imperial)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("tables differ (-first +second):\n%s", diff)
	}
}

func TestParseDocument_IntensityMatchesDepth(t *testing.T) {
	fixtures := []string{"eccc_table2a.txt", "wrapped.txt", "rp_rows.txt", "french.txt"}
	for _, name := range fixtures {
		for _, us := range []UnitSystem{Metric, Imperial} {
			t.Run(name+"/"+string(us), func(t *testing.T) {
				table, err := ParseDocument(loadFixture(t, name), us)
				require.NoError(t, err)
				assertIntensitiesMatch(t, table, us)
			})
		}
	}
}

func assertIntensitiesMatch(t *testing.T, table *RainfallTable, us UnitSystem) {
	t.Helper()
	for rp, row := range table.IDF.DepthsMM {
		assert.Len(t, table.IDF.Intensities[rp], len(row), rp)
		for label, depth := range row {
			d, ok := parseDurationLabel(label)
			require.True(t, ok, label)
			assert.True(t, d.IsCanonical(), label)
			assert.Equal(t, Intensity(depth, d, us), table.IDF.Intensities[rp][label], "%s %s", rp, label)
		}
	}
}

func TestParseColumnar(t *testing.T) {
	t.Run("duration header", func(t *testing.T) {
		table, err := ParseColumnar(loadFixture(t, "columnar.txt"), Metric)
		require.NoError(t, err)

		assert.Equal(t, StrategyColumnar, table.Strategy)
		assert.Equal(t, 54, table.IDF.DepthsMM.Cells())
		assert.Equal(t, 7.1, table.IDF.DepthsMM["2yr"]["5 min"])
		assert.Equal(t, 45.4, table.IDF.DepthsMM["100yr"]["60 min"])
		assert.Equal(t, 89.7, table.IDF.DepthsMM["50yr"]["1440 min"])
		assertIntensitiesMatch(t, table, Metric)
	})

	t.Run("falls back to rows without a duration header", func(t *testing.T) {
		table, err := ParseColumnar(loadFixture(t, "eccc_table2a.txt"), Metric)
		require.NoError(t, err)

		assert.Equal(t, StrategyRows, table.Strategy)
		assert.Equal(t, 54, table.IDF.DepthsMM.Cells())
	})

	t.Run("header without return period rows", func(t *testing.T) {
		_, err := ParseColumnar("Table 2a\n5 min 10 min 15 min\nfoo bar", Metric)
		assert.ErrorIs(t, err, ErrParseFailure)
	})

	t.Run("table not found", func(t *testing.T) {
		_, err := ParseColumnar("nothing here", Metric)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})
}

func TestParseReturnPeriod(t *testing.T) {
	tests := []struct {
		tok    string
		want   ReturnPeriod
		wantOK bool
	}{
		{"2", 2, true},
		{"25yr", 25, true},
		{"100-yr", 100, true},
		{"50ans", 50, true},
		{"3", 0, false},
		{"2.5", 0, false},
		{"T", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseReturnPeriod(tt.tok)
		assert.Equal(t, tt.wantOK, ok, tt.tok)
		assert.Equal(t, tt.want, got, tt.tok)
	}
}

func TestRainfallTable_Clone(t *testing.T) {
	table, err := ParseDocument(bareDurationTable, Metric)
	require.NoError(t, err)

	cp := table.Clone()
	cp.IDF.DepthsMM["2yr"]["5 min"] = 99
	assert.Equal(t, 2.1, table.IDF.DepthsMM["2yr"]["5 min"])
}

func TestUnitSystem(t *testing.T) {
	us, err := ParseUnitSystem("")
	require.NoError(t, err)
	assert.Equal(t, Metric, us)

	us, err = ParseUnitSystem(" IMPERIAL ")
	require.NoError(t, err)
	assert.Equal(t, Imperial, us)

	_, err = ParseUnitSystem("kelvin")
	assert.ErrorIs(t, err, ErrInvalidUnitSystem)
}
