// Package aggregate builds the grouped summary tables: occurrence counts,
// per-country drift means, and per-country correlation of latitude and
// longitude drift.
package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/petrel-labs/occurrence-atlas/internal/dataset"
	"github.com/petrel-labs/occurrence-atlas/internal/derive"
)

// GeoCount is the occurrence count for one (year, lon, lat, country) key.
type GeoCount struct {
	Year    int
	Lon     float64
	Lat     float64
	Country string
	Count   int
}

// SpeciesCount is the occurrence count for one species.
type SpeciesCount struct {
	Species string
	Count   int
}

// HemisphereCount is the occurrence count for one (species, hemisphere) key.
type HemisphereCount struct {
	Species    string
	Hemisphere string
	Count      int
}

// DriftMean is the mean coordinate change for one (country, year) group.
// Undefined when the group has no defined delta values.
type DriftMean struct {
	Country string
	Year    int
	LatMean float64
	LonMean float64
	N       int
	Defined bool
}

// Correlation is the Pearson correlation between latitude and longitude drift
// for one country. Undefined with fewer than two pairs or zero variance in
// either dimension.
type Correlation struct {
	Country string
	R       float64
	Pairs   int
	Defined bool
}

// GeoCounts groups derived records by (year, lon, lat, country) and counts
// members. Output is sorted by year, then country, then lon/lat.
func GeoCounts(recs []derive.Derived) []GeoCount {
	type key struct {
		year     int
		lon, lat float64
		country  string
	}
	counts := make(map[key]int)
	for _, r := range recs {
		counts[key{r.Year, r.Lon, r.Lat, r.Country}]++
	}
	out := make([]GeoCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, GeoCount{Year: k.year, Lon: k.lon, Lat: k.lat, Country: k.country, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		if out[i].Lon != out[j].Lon {
			return out[i].Lon < out[j].Lon
		}
		return out[i].Lat < out[j].Lat
	})
	return out
}

// SpeciesCounts counts occurrences per species, most frequent first; ties
// break alphabetically.
func SpeciesCounts(recs []dataset.Occurrence) []SpeciesCount {
	counts := make(map[string]int)
	for _, r := range recs {
		counts[r.Species]++
	}
	out := make([]SpeciesCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, SpeciesCount{Species: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Species < out[j].Species
	})
	return out
}

// HemisphereCounts counts occurrences per (species, hemisphere), sorted by
// species then hemisphere.
func HemisphereCounts(recs []dataset.Occurrence) []HemisphereCount {
	type key struct{ species, hemisphere string }
	counts := make(map[key]int)
	for _, r := range recs {
		counts[key{r.Species, r.Hemisphere()}]++
	}
	out := make([]HemisphereCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, HemisphereCount{Species: k.species, Hemisphere: k.hemisphere, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Species != out[j].Species {
			return out[i].Species < out[j].Species
		}
		return out[i].Hemisphere < out[j].Hemisphere
	})
	return out
}

// DriftMeans computes the mean lat/lon change per (country, year) group over
// defined values only. A group with no defined values yields an undefined
// mean rather than zero. Output is sorted by country then year.
func DriftMeans(deltas []derive.Delta) []DriftMean {
	type key struct {
		country string
		year    int
	}
	type acc struct {
		lat, lon []float64
	}
	groups := make(map[key]*acc)
	for _, d := range deltas {
		k := key{d.Country, d.Year}
		a := groups[k]
		if a == nil {
			a = &acc{}
			groups[k] = a
		}
		if !math.IsNaN(d.LatChange) && !math.IsNaN(d.LonChange) {
			a.lat = append(a.lat, d.LatChange)
			a.lon = append(a.lon, d.LonChange)
		}
	}
	out := make([]DriftMean, 0, len(groups))
	for k, a := range groups {
		m := DriftMean{Country: k.country, Year: k.year, N: len(a.lat)}
		if m.N > 0 {
			m.LatMean = stat.Mean(a.lat, nil)
			m.LonMean = stat.Mean(a.lon, nil)
			m.Defined = true
		} else {
			m.LatMean = math.NaN()
			m.LonMean = math.NaN()
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// DriftCorrelations computes the Pearson correlation between lat and lon
// drift per country, over pairs with both values defined. Output is sorted by
// country.
func DriftCorrelations(deltas []derive.Delta) []Correlation {
	byCountry := make(map[string][2][]float64)
	for _, d := range deltas {
		if math.IsNaN(d.LatChange) || math.IsNaN(d.LonChange) {
			continue
		}
		pair := byCountry[d.Country]
		pair[0] = append(pair[0], d.LatChange)
		pair[1] = append(pair[1], d.LonChange)
		byCountry[d.Country] = pair
	}
	out := make([]Correlation, 0, len(byCountry))
	for country, pair := range byCountry {
		c := Correlation{Country: country, Pairs: len(pair[0]), R: math.NaN()}
		if c.Pairs >= 2 && stat.Variance(pair[0], nil) > 0 && stat.Variance(pair[1], nil) > 0 {
			c.R = stat.Correlation(pair[0], pair[1], nil)
			c.Defined = !math.IsNaN(c.R)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}
