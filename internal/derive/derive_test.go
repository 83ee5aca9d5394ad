package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrel-labs/occurrence-atlas/internal/dataset"
)

func TestYearSuffix(t *testing.T) {
	rule := DefaultYearRule()

	y, err := rule.Year("BIO-123-07")
	require.NoError(t, err)
	assert.Equal(t, 2007, y)

	y, err = rule.Year("BIO-123-99")
	require.NoError(t, err)
	assert.Equal(t, 2099, y)
}

func TestYearSuffixRejections(t *testing.T) {
	rule := DefaultYearRule()

	_, err := rule.Year("7")
	assert.Error(t, err, "single-character id has no two-digit suffix")

	_, err = rule.Year("BIO-123-XY")
	assert.Error(t, err, "non-numeric suffix")

	narrow := YearRule{CenturyBase: 2000, Min: 2000, Max: 2029}
	_, err = narrow.Year("BIO-123-45")
	assert.Error(t, err, "2045 outside configured window")
}

func TestYearsRejectCount(t *testing.T) {
	recs := []dataset.Occurrence{
		{ProcessID: "BIO-01-04", Country: "France"},
		{ProcessID: "BIO-02-zz", Country: "France"},
		{ProcessID: "x", Country: "France"},
	}
	out, rejected := Years(recs, DefaultYearRule())
	assert.Len(t, out, 1)
	assert.Equal(t, 2, rejected)
	assert.Equal(t, 2004, out[0].Year)
}

func TestDeltasWithinCountry(t *testing.T) {
	recs := []Derived{
		{Occurrence: dataset.Occurrence{Country: "Chile", Lat: 9.0, Lon: 3.0}, Year: 2010},
		{Occurrence: dataset.Occurrence{Country: "Chile", Lat: 10.0, Lon: 1.0}, Year: 2004},
		{Occurrence: dataset.Occurrence{Country: "Chile", Lat: 12.0, Lon: 2.0}, Year: 2007},
	}
	deltas := Deltas(recs)
	require.Len(t, deltas, 2, "first row of the partition is excluded")

	assert.Equal(t, 2007, deltas[0].Year)
	assert.InDelta(t, 2.0, deltas[0].LatChange, 1e-12)
	assert.InDelta(t, 1.0, deltas[0].LonChange, 1e-12)

	assert.Equal(t, 2010, deltas[1].Year)
	assert.InDelta(t, -3.0, deltas[1].LatChange, 1e-12)
	assert.InDelta(t, 1.0, deltas[1].LonChange, 1e-12)
}

func TestDeltasSingleRowPartition(t *testing.T) {
	recs := []Derived{
		{Occurrence: dataset.Occurrence{Country: "Iceland", Lat: 64.1, Lon: -21.9}, Year: 2012},
	}
	assert.Empty(t, Deltas(recs), "a single-record country contributes no delta rows")
}

func TestDeltasPartitionedByCountry(t *testing.T) {
	recs := []Derived{
		{Occurrence: dataset.Occurrence{Country: "A", Lat: 1, Lon: 1}, Year: 2001},
		{Occurrence: dataset.Occurrence{Country: "B", Lat: 5, Lon: 5}, Year: 2002},
		{Occurrence: dataset.Occurrence{Country: "A", Lat: 2, Lon: 2}, Year: 2003},
	}
	deltas := Deltas(recs)
	require.Len(t, deltas, 1, "deltas never cross country boundaries")
	assert.Equal(t, "A", deltas[0].Country)
	assert.InDelta(t, 1.0, deltas[0].LatChange, 1e-12)
}
