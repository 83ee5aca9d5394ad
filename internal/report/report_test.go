package report

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrel-labs/occurrence-atlas/internal/aggregate"
	"github.com/petrel-labs/occurrence-atlas/internal/utils"
)

func sampleSummary() *Summary {
	s := New("occurrences.tsv")
	s.RowsLoaded = 10
	s.RowsMissing = 2
	s.RowsYearRejected = 1
	s.Records = 8
	s.DeltaRows = 5
	s.SetAggregates(
		[]aggregate.SpeciesCount{{Species: "Parus major", Count: 5}},
		[]aggregate.HemisphereCount{
			{Species: "Parus major", Hemisphere: "Eastern", Count: 3},
			{Species: "Parus major", Hemisphere: "Western", Count: 2},
		},
		[]aggregate.GeoCount{{Year: 2004, Lon: 1, Lat: 2, Country: "Chile", Count: 2}},
		[]aggregate.DriftMean{
			{Country: "Chile", Year: 2007, LatMean: 2, LonMean: 1, N: 1, Defined: true},
			{Country: "Chile", Year: 2010, LatMean: math.NaN(), LonMean: math.NaN(), N: 0},
		},
		[]aggregate.Correlation{
			{Country: "Chile", R: -1, Pairs: 3, Defined: true},
			{Country: "France", R: math.NaN(), Pairs: 1},
		},
	)
	return s
}

func TestMarkdown(t *testing.T) {
	s := sampleSummary()
	md := s.Markdown()

	assert.Contains(t, md, "[RUN SUMMARY]")
	assert.Contains(t, md, s.RunID)
	assert.Contains(t, md, "10 loaded, 2 dropped (missing values), 1 rejected (year suffix)")
	assert.Contains(t, md, "Parus major: 5")
	assert.Contains(t, md, "Eastern: 3, Western: 2")
	assert.Contains(t, md, "Chile: r=-1.000 (n=3)")
	assert.Contains(t, md, "France: undefined (n=1)")
}

func TestMarkdownTopSpeciesLimit(t *testing.T) {
	s := New("occurrences.tsv")
	s.SetAggregates(
		[]aggregate.SpeciesCount{
			{Species: "Parus major", Count: 5},
			{Species: "Pica pica", Count: 3},
			{Species: "Turdus merula", Count: 1},
		},
		nil, nil, nil, nil,
	)
	s.TopSpecies = 2
	md := s.Markdown()

	assert.Contains(t, md, "Parus major: 5")
	assert.Contains(t, md, "Pica pica: 3")
	assert.NotContains(t, md, "Turdus merula")
	assert.Contains(t, md, "… 1 more species")

	// zero falls back to the default cap, which covers all three here
	s.TopSpecies = 0
	assert.Contains(t, s.Markdown(), "Turdus merula")
}

func TestUndefinedStatsSurviveJSON(t *testing.T) {
	s := sampleSummary()
	// NaN would make encoding/json fail; undefined values must be nil instead
	b, err := utils.PrettyJSON(s)
	require.NoError(t, err)

	js := string(b)
	assert.Contains(t, js, `"r": null`)
	assert.Contains(t, js, `"lat_mean": null`)
	assert.True(t, strings.Contains(js, `"run_id"`))
}

func TestRunIDsUnique(t *testing.T) {
	a := New("x.tsv")
	b := New("x.tsv")
	assert.NotEqual(t, a.RunID, b.RunID)
}
