// Package dataset loads a delimited occurrence table and projects it onto the
// five columns the analysis consumes.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ColumnNames maps the five consumed fields to their header names. Columns are
// resolved by name rather than position so upstream column reordering fails
// loudly instead of silently shifting fields.
type ColumnNames struct {
	ProcessID string
	Species   string
	Lat       string
	Lon       string
	Country   string
}

// DefaultColumns returns the BOLD-style header names.
func DefaultColumns() ColumnNames {
	return ColumnNames{
		ProcessID: "processid",
		Species:   "species_name",
		Lat:       "lat",
		Lon:       "lon",
		Country:   "country",
	}
}

// Occurrence is one specimen observation. After Select, no field is missing.
type Occurrence struct {
	ProcessID string
	Species   string
	Lat       float64
	Lon       float64
	Country   string
}

// Hemisphere classifies the record as Eastern/Western by the sign of its
// longitude.
func (o Occurrence) Hemisphere() string {
	if o.Lon > 0 {
		return "Eastern"
	}
	return "Western"
}

// Table holds the raw loaded rows plus resolved column indices.
type Table struct {
	Path string
	rows [][]string
	idx  colIndex
}

type colIndex struct {
	processID int
	species   int
	lat       int
	lon       int
	country   int
}

// Rows reports the number of raw data rows loaded (header excluded).
func (t *Table) Rows() int { return len(t.rows) }

// Load reads the delimited file at path into memory, resolving the five
// required columns by header name. It fails fast on a missing file, an
// unreadable row, or a header that lacks any required column.
func Load(path string, delim rune, cols ColumnNames) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	// FieldsPerRecord is left at 0 so the header fixes the expected field
	// count and any ragged row fails the load. TrimLeadingSpace must stay off:
	// with a tab delimiter it would swallow empty fields (the delimiter itself
	// is trimmable whitespace); Select trims each field instead.
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file %s", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := colIndex{}
	var missing []string
	resolve := func(name string, dst *int) {
		if i, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			*dst = i
		} else {
			missing = append(missing, name)
		}
	}
	resolve(cols.ProcessID, &idx.processID)
	resolve(cols.Species, &idx.species)
	resolve(cols.Lat, &idx.lat)
	resolve(cols.Lon, &idx.lon)
	resolve(cols.Country, &idx.country)
	if len(missing) > 0 {
		return nil, fmt.Errorf("schema mismatch in %s: missing columns %s", path, strings.Join(missing, ", "))
	}

	t := &Table{Path: path, idx: idx}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.rows)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Select projects the five resolved columns into typed records, dropping any
// row with a missing value or an unparseable coordinate. It returns the
// surviving records and the number of rows dropped.
func (t *Table) Select() (recs []Occurrence, dropped int) {
	for _, row := range t.rows {
		pid := strings.TrimSpace(row[t.idx.processID])
		species := strings.TrimSpace(row[t.idx.species])
		latS := strings.TrimSpace(row[t.idx.lat])
		lonS := strings.TrimSpace(row[t.idx.lon])
		country := strings.TrimSpace(row[t.idx.country])
		if pid == "" || species == "" || latS == "" || lonS == "" || country == "" {
			dropped++
			continue
		}
		lat, err := strconv.ParseFloat(latS, 64)
		if err != nil {
			dropped++
			continue
		}
		lon, err := strconv.ParseFloat(lonS, 64)
		if err != nil {
			dropped++
			continue
		}
		recs = append(recs, Occurrence{
			ProcessID: pid,
			Species:   species,
			Lat:       lat,
			Lon:       lon,
			Country:   country,
		})
	}
	return recs, dropped
}

// Complete reports whether every field of every record is present. Select
// guarantees this; the check exists as a post-condition diagnostic.
func Complete(recs []Occurrence) bool {
	for _, r := range recs {
		if r.ProcessID == "" || r.Species == "" || r.Country == "" {
			return false
		}
	}
	return true
}
