// Package derive computes the fields the aggregation stage consumes: the
// collection year encoded in the specimen id suffix, and per-country
// coordinate deltas between successive-by-year records.
package derive

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/petrel-labs/occurrence-atlas/internal/dataset"
)

// YearRule controls year derivation. The two-digit suffix of the process id is
// added to CenturyBase; derived years outside [Min, Max] are invalid. The
// fixed-century assumption only holds for collections dated CenturyBase..
// CenturyBase+99, so the window exists to catch ids that drift outside it.
type YearRule struct {
	CenturyBase int
	Min         int
	Max         int
}

// DefaultYearRule assumes collection dates in 2000-2099.
func DefaultYearRule() YearRule {
	return YearRule{CenturyBase: 2000, Min: 2000, Max: 2099}
}

// Year derives the collection year from a process id. Ids shorter than two
// characters, non-numeric suffixes, and years outside the rule's window are
// errors; callers reject the row rather than coercing.
func (r YearRule) Year(processID string) (int, error) {
	if len(processID) < 2 {
		return 0, fmt.Errorf("process id %q too short for year suffix", processID)
	}
	suffix := processID[len(processID)-2:]
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("process id %q has non-numeric year suffix %q", processID, suffix)
	}
	year := r.CenturyBase + n
	if year < r.Min || year > r.Max {
		return 0, fmt.Errorf("process id %q derives year %d outside %d-%d", processID, year, r.Min, r.Max)
	}
	return year, nil
}

// Derived is an occurrence with its derived collection year.
type Derived struct {
	dataset.Occurrence
	Year int
}

// Years derives the year for each record, rejecting records whose id yields
// no valid year. It returns the surviving records and the rejection count.
func Years(recs []dataset.Occurrence, rule YearRule) (out []Derived, rejected int) {
	for _, rec := range recs {
		y, err := rule.Year(rec.ProcessID)
		if err != nil {
			rejected++
			continue
		}
		out = append(out, Derived{Occurrence: rec, Year: y})
	}
	return out, rejected
}

// Delta is the coordinate change between a record and its predecessor within
// the same country, ordered by year.
type Delta struct {
	Country   string
	Year      int
	Lat       float64 // position after the move
	Lon       float64
	LatChange float64
	LonChange float64
}

// Deltas partitions records by country, sorts each partition by year
// ascending, and emits the lat/lon change of each record relative to its
// predecessor. The first record of each partition has no predecessor and is
// excluded, so single-record partitions contribute nothing. Output is ordered
// by country then year.
func Deltas(recs []Derived) []Delta {
	byCountry := make(map[string][]Derived)
	for _, r := range recs {
		byCountry[r.Country] = append(byCountry[r.Country], r)
	}
	countries := make([]string, 0, len(byCountry))
	for c := range byCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	var out []Delta
	for _, c := range countries {
		part := byCountry[c]
		sort.SliceStable(part, func(i, j int) bool { return part[i].Year < part[j].Year })
		for i := 1; i < len(part); i++ {
			out = append(out, Delta{
				Country:   c,
				Year:      part[i].Year,
				Lat:       part[i].Lat,
				Lon:       part[i].Lon,
				LatChange: part[i].Lat - part[i-1].Lat,
				LonChange: part[i].Lon - part[i-1].Lon,
			})
		}
	}
	return out
}
