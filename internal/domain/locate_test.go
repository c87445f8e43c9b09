package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateTable(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantHeading int
		wantEnd     int
	}{
		{"english heading", "intro\nTable 2a : Return Period Rainfall Amounts (mm)\n5 min 1 2 3\nTable 2b : Rates\n5 min 9 9 9", 1, 3},
		{"french heading", "Tableau 2a : Quantité de pluie\n5 min 1 2 3\nTableau 2b\n", 0, 2},
		{"no following table", "Table 2A\n5 1 2 3 4 5 6", 0, 2},
		{"precipitation fallback", "header\nPrécipitation (mm)\n5 min 1 2 3", 1, 3},
		{"table two wins over earlier mention", "Rainfall amounts are listed below\nTable 1\nx\nTable 2a\n5 min 1 2 3", 3, 5},
		{"bilingual repeat does not end the table", "Table 2a : Amounts\nTableau 2a : Quantités\n5 min 1 2 3\nTable 2b", 0, 3},
		{"same label repeated mid-table", "Table 2a : Amounts\n5 min 1 2 3\nTABLEAU 2A (suite)\n10 min 4 5 6\nTable 3", 0, 4},
		{"french heading ends an english table", "Table 2a : Amounts\n5 min 1 2 3\nTableau 2b : Intensités", 0, 2},
		{"tableau word inside a line is not a boundary", "Table 2a\n5 min 1 2 3\nvoir tableau 3\n10 min 4 5 6", 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, err := LocateTable(SplitLines(tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeading, span.Heading)
			assert.Equal(t, tt.wantEnd, span.End)
		})
	}
}

func TestLocateTable_NotFound(t *testing.T) {
	_, err := LocateTable(SplitLines("Table 1 : Annual Maximum\n1963 6.1 8.9"))
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("\ufeff  a  \r\nb\rc\n")
	assert.Equal(t, []string{"a", "b", "c", ""}, lines)
}

func TestFoldAccents(t *testing.T) {
	assert.Equal(t, "Precipitation duree", foldAccents("Précipitation durée"))
}
