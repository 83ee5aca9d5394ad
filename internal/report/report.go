// Package report renders a run summary of the pipeline: row accounting,
// aggregate tables, and the artifacts written. Undefined statistics stay
// undefined in every output form, never zero.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petrel-labs/occurrence-atlas/internal/aggregate"
)

// Summary is a markdown- and JSON-friendly view of one pipeline run.
type Summary struct {
	RunID       string    `json:"run_id"`
	Dataset     string    `json:"dataset"`
	GeneratedAt time.Time `json:"generated_at"`

	RowsLoaded       int `json:"rows_loaded"`
	RowsMissing      int `json:"rows_missing_dropped"`
	RowsYearRejected int `json:"rows_year_rejected"`
	Records          int `json:"records"`
	DeltaRows        int `json:"delta_rows"`

	Species      []aggregate.SpeciesCount    `json:"species_counts"`
	Hemisphere   []aggregate.HemisphereCount `json:"hemisphere_counts"`
	GeoKeys      int                         `json:"geo_keys"`
	DriftMeans   []DriftMeanRow              `json:"drift_means"`
	Correlations []CorrelationRow            `json:"correlations"`

	Artifacts []string `json:"artifacts,omitempty"`

	// TopSpecies caps the species section of the markdown rendering; zero
	// falls back to the default. Presentation only, not serialized.
	TopSpecies int `json:"-"`
}

// DriftMeanRow is a serializable drift mean; nil means undefined.
type DriftMeanRow struct {
	Country string   `json:"country"`
	Year    int      `json:"year"`
	LatMean *float64 `json:"lat_mean"`
	LonMean *float64 `json:"lon_mean"`
	N       int      `json:"n"`
}

// CorrelationRow is a serializable correlation; nil R means undefined.
type CorrelationRow struct {
	Country string   `json:"country"`
	R       *float64 `json:"r"`
	Pairs   int      `json:"pairs"`
}

// defaultTopSpecies bounds the species section when no cap is configured.
const defaultTopSpecies = 15

// New creates a Summary for the given dataset path with a fresh run id.
func New(dataset string) *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		Dataset:     dataset,
		GeneratedAt: time.Now().UTC(),
	}
}

// SetAggregates fills the aggregate sections, converting undefined statistics
// to nil so they survive JSON encoding.
func (s *Summary) SetAggregates(
	species []aggregate.SpeciesCount,
	hemisphere []aggregate.HemisphereCount,
	geo []aggregate.GeoCount,
	means []aggregate.DriftMean,
	corrs []aggregate.Correlation,
) {
	s.Species = species
	s.Hemisphere = hemisphere
	s.GeoKeys = len(geo)
	s.DriftMeans = make([]DriftMeanRow, 0, len(means))
	for _, m := range means {
		row := DriftMeanRow{Country: m.Country, Year: m.Year, N: m.N}
		if m.Defined {
			lat, lon := m.LatMean, m.LonMean
			row.LatMean = &lat
			row.LonMean = &lon
		}
		s.DriftMeans = append(s.DriftMeans, row)
	}
	s.Correlations = make([]CorrelationRow, 0, len(corrs))
	for _, c := range corrs {
		row := CorrelationRow{Country: c.Country, Pairs: c.Pairs}
		if c.Defined {
			r := c.R
			row.R = &r
		}
		s.Correlations = append(s.Correlations, row)
	}
}

// Markdown renders a compact run summary.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[RUN SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", s.RunID))
	b.WriteString(fmt.Sprintf("Dataset: %s\n", s.Dataset))
	b.WriteString(fmt.Sprintf("Generated: %s\n", s.GeneratedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Rows: %d loaded, %d dropped (missing values), %d rejected (year suffix)\n", s.RowsLoaded, s.RowsMissing, s.RowsYearRejected))
	b.WriteString(fmt.Sprintf("Records: %d; delta rows: %d; distinct geo keys: %d\n", s.Records, s.DeltaRows, s.GeoKeys))

	if len(s.Species) > 0 {
		b.WriteString("\n[SPECIES COUNTS]\n")
		limit := s.TopSpecies
		if limit <= 0 {
			limit = defaultTopSpecies
		}
		if len(s.Species) < limit {
			limit = len(s.Species)
		}
		for _, sc := range s.Species[:limit] {
			b.WriteString(fmt.Sprintf("- %s: %d\n", sc.Species, sc.Count))
		}
		if len(s.Species) > limit {
			b.WriteString(fmt.Sprintf("- … %d more species\n", len(s.Species)-limit))
		}
	}

	if len(s.Hemisphere) > 0 {
		east, west := 0, 0
		for _, h := range s.Hemisphere {
			if h.Hemisphere == "Eastern" {
				east += h.Count
			} else {
				west += h.Count
			}
		}
		b.WriteString("\n[HEMISPHERE SPLIT]\n")
		b.WriteString(fmt.Sprintf("- Eastern: %d, Western: %d (%d species/hemisphere keys)\n", east, west, len(s.Hemisphere)))
	}

	if len(s.Correlations) > 0 {
		b.WriteString("\n[DRIFT CORRELATIONS]\n")
		for _, c := range s.Correlations {
			if c.R != nil {
				b.WriteString(fmt.Sprintf("- %s: r=%.3f (n=%d)\n", c.Country, *c.R, c.Pairs))
			} else {
				b.WriteString(fmt.Sprintf("- %s: undefined (n=%d)\n", c.Country, c.Pairs))
			}
		}
	}

	if len(s.Artifacts) > 0 {
		b.WriteString("\n[ARTIFACTS]\n")
		for _, a := range s.Artifacts {
			b.WriteString("- ")
			b.WriteString(a)
			b.WriteString("\n")
		}
	}
	return b.String()
}
