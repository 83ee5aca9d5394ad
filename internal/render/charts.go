// Package render turns aggregate tables into chart files. It holds no
// business logic: every function is "given table X, produce artifact Y", and
// empty inputs produce empty charts rather than errors.
package render

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/petrel-labs/occurrence-atlas/internal/aggregate"
	"github.com/petrel-labs/occurrence-atlas/internal/dataset"
	"github.com/petrel-labs/occurrence-atlas/internal/derive"
)

// Renderer writes chart files into OutDir.
type Renderer struct {
	OutDir string
}

func (r Renderer) path(name string) string {
	return filepath.Join(r.OutDir, name)
}

// LatitudeBoxplot draws the latitude distribution of occurrences split by
// hemisphere.
func (r Renderer) LatitudeBoxplot(recs []dataset.Occurrence) (string, error) {
	var east, west plotter.Values
	for _, rec := range recs {
		if rec.Hemisphere() == "Eastern" {
			east = append(east, rec.Lat)
		} else {
			west = append(west, rec.Lat)
		}
	}

	p := plot.New()
	p.Title.Text = "Latitude by hemisphere"
	p.Y.Label.Text = "Latitude"

	w := vg.Points(40)
	for i, vals := range []plotter.Values{east, west} {
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(w, float64(i), vals)
		if err != nil {
			return "", fmt.Errorf("boxplot: %w", err)
		}
		p.Add(b)
	}
	p.NominalX("Eastern", "Western")

	out := r.path("latitude_boxplot.png")
	if err := p.Save(6*vg.Inch, 5*vg.Inch, out); err != nil {
		return "", fmt.Errorf("save boxplot: %w", err)
	}
	return out, nil
}

// YearHistogram draws the distribution of occurrences across collection
// years.
func (r Renderer) YearHistogram(recs []derive.Derived) (string, error) {
	p := plot.New()
	p.Title.Text = "Occurrences per collection year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Occurrences"

	if len(recs) > 0 {
		vals := make(plotter.Values, len(recs))
		minYear, maxYear := recs[0].Year, recs[0].Year
		for i, rec := range recs {
			vals[i] = float64(rec.Year)
			if rec.Year < minYear {
				minYear = rec.Year
			}
			if rec.Year > maxYear {
				maxYear = rec.Year
			}
		}
		bins := maxYear - minYear + 1
		h, err := plotter.NewHist(vals, bins)
		if err != nil {
			return "", fmt.Errorf("histogram: %w", err)
		}
		h.FillColor = plotutil.Color(0)
		p.Add(h)
	}

	out := r.path("year_histogram.png")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, out); err != nil {
		return "", fmt.Errorf("save histogram: %w", err)
	}
	return out, nil
}

// SpeciesBar draws occurrence counts for the top most frequent species.
func (r Renderer) SpeciesBar(counts []aggregate.SpeciesCount, top int) (string, error) {
	if top > 0 && len(counts) > top {
		counts = counts[:top]
	}

	p := plot.New()
	p.Title.Text = "Occurrences per species"
	p.Y.Label.Text = "Occurrences"

	if len(counts) > 0 {
		vals := make(plotter.Values, len(counts))
		names := make([]string, len(counts))
		for i, c := range counts {
			vals[i] = float64(c.Count)
			names[i] = c.Species
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(18))
		if err != nil {
			return "", fmt.Errorf("bar chart: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(0)
		p.Add(bars)
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = math.Pi / 3
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	out := r.path("species_bar.png")
	if err := p.Save(10*vg.Inch, 6*vg.Inch, out); err != nil {
		return "", fmt.Errorf("save bar chart: %w", err)
	}
	return out, nil
}

// HemisphereStackedBar draws per-species occurrence counts stacked by
// hemisphere, for the top species by total count.
func (r Renderer) HemisphereStackedBar(counts []aggregate.HemisphereCount, top int) (string, error) {
	east := make(map[string]int)
	west := make(map[string]int)
	total := make(map[string]int)
	for _, c := range counts {
		if c.Hemisphere == "Eastern" {
			east[c.Species] += c.Count
		} else {
			west[c.Species] += c.Count
		}
		total[c.Species] += c.Count
	}
	species := make([]string, 0, len(total))
	for s := range total {
		species = append(species, s)
	}
	// most frequent first, ties alphabetical
	sortSpeciesByCount(species, total)
	if top > 0 && len(species) > top {
		species = species[:top]
	}

	p := plot.New()
	p.Title.Text = "Occurrences per species by hemisphere"
	p.Y.Label.Text = "Occurrences"

	if len(species) > 0 {
		eastVals := make(plotter.Values, len(species))
		westVals := make(plotter.Values, len(species))
		for i, s := range species {
			eastVals[i] = float64(east[s])
			westVals[i] = float64(west[s])
		}
		w := vg.Points(18)
		eastBars, err := plotter.NewBarChart(eastVals, w)
		if err != nil {
			return "", fmt.Errorf("stacked bar: %w", err)
		}
		westBars, err := plotter.NewBarChart(westVals, w)
		if err != nil {
			return "", fmt.Errorf("stacked bar: %w", err)
		}
		eastBars.LineStyle.Width = vg.Length(0)
		westBars.LineStyle.Width = vg.Length(0)
		eastBars.Color = plotutil.Color(0)
		westBars.Color = plotutil.Color(1)
		eastBars.StackOn(westBars)
		p.Add(westBars, eastBars)
		p.Legend.Add("Eastern", eastBars)
		p.Legend.Add("Western", westBars)
		p.Legend.Top = true
		p.NominalX(species...)
		p.X.Tick.Label.Rotation = math.Pi / 3
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	out := r.path("hemisphere_stacked_bar.png")
	if err := p.Save(10*vg.Inch, 6*vg.Inch, out); err != nil {
		return "", fmt.Errorf("save stacked bar: %w", err)
	}
	return out, nil
}

// DriftFacets draws one tile per country with the mean latitude and longitude
// drift over collection years.
func (r Renderer) DriftFacets(means []aggregate.DriftMean) (string, error) {
	byCountry := make(map[string][]aggregate.DriftMean)
	var countries []string
	for _, m := range means {
		if !m.Defined {
			continue
		}
		if _, seen := byCountry[m.Country]; !seen {
			countries = append(countries, m.Country)
		}
		byCountry[m.Country] = append(byCountry[m.Country], m)
	}

	cols := 3
	rows := (len(countries) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}
	plots := make([][]*plot.Plot, rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, cols)
	}
	for idx, country := range countries {
		ms := byCountry[country]
		latPts := make(plotter.XYs, len(ms))
		lonPts := make(plotter.XYs, len(ms))
		for i, m := range ms {
			latPts[i] = plotter.XY{X: float64(m.Year), Y: m.LatMean}
			lonPts[i] = plotter.XY{X: float64(m.Year), Y: m.LonMean}
		}
		p := plot.New()
		p.Title.Text = country
		p.X.Label.Text = "Year"
		p.Y.Label.Text = "Mean drift"
		latLine, err := plotter.NewLine(latPts)
		if err != nil {
			return "", fmt.Errorf("facet line: %w", err)
		}
		lonLine, err := plotter.NewLine(lonPts)
		if err != nil {
			return "", fmt.Errorf("facet line: %w", err)
		}
		latLine.Color = plotutil.Color(0)
		lonLine.Color = plotutil.Color(1)
		p.Add(latLine, lonLine, plotter.NewGrid())
		p.Legend.Add("lat", latLine)
		p.Legend.Add("lon", lonLine)
		p.Legend.Top = true
		plots[idx/cols][idx%cols] = p
	}

	img := vgimg.New(vg.Points(float64(cols)*300), vg.Points(float64(rows)*220))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Points(8), PadY: vg.Points(8),
		PadTop: vg.Points(4), PadBottom: vg.Points(4),
		PadLeft: vg.Points(4), PadRight: vg.Points(4),
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	out := r.path("drift_facets.png")
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create facet chart: %w", err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return "", fmt.Errorf("write facet chart: %w", err)
	}
	return out, nil
}

func sortSpeciesByCount(species []string, total map[string]int) {
	sort.Slice(species, func(i, j int) bool {
		if total[species[i]] != total[species[j]] {
			return total[species[i]] > total[species[j]]
		}
		return species[i] < species[j]
	})
}
