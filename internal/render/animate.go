package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	imgdraw "image/draw"
	"image/jpeg"
	"os"
	"sort"

	"github.com/icza/mjpeg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/petrel-labs/occurrence-atlas/internal/derive"
)

// AnimationOptions parameterize the time-lapse occurrence map.
type AnimationOptions struct {
	DurationSec int      // total playback length
	FPS         int      // frames per second
	Formats     []string // "gif", "avi"
}

// DefaultAnimationOptions is 20 seconds at 10 frames/second, both containers.
func DefaultAnimationOptions() AnimationOptions {
	return AnimationOptions{DurationSec: 20, FPS: 10, Formats: []string{"gif", "avi"}}
}

// AnimatedScatter renders a lon/lat scatter animated over collection years,
// one distinct year per step, with holds spread so the frame count sums to
// exactly DurationSec × FPS. It returns the paths written, one per requested
// container format.
func (r Renderer) AnimatedScatter(recs []derive.Derived, opt AnimationOptions) ([]string, error) {
	if opt.DurationSec <= 0 || opt.FPS <= 0 {
		return nil, fmt.Errorf("animation needs positive duration and fps (got %ds, %d fps)", opt.DurationSec, opt.FPS)
	}

	years := distinctYears(recs)
	if len(years) == 0 {
		years = []int{0} // single empty frame
	}
	totalFrames := opt.DurationSec * opt.FPS
	if totalFrames < len(years) {
		totalFrames = len(years)
	}
	holds := frameHolds(totalFrames, len(years))

	bounds := coordinateBounds(recs)
	countries := distinctCountries(recs)

	frames := make([]image.Image, 0, len(years))
	for _, year := range years {
		img, err := renderYearFrame(recs, year, bounds, countries)
		if err != nil {
			return nil, fmt.Errorf("render frame for %d: %w", year, err)
		}
		frames = append(frames, img)
	}

	var outputs []string
	for _, format := range opt.Formats {
		switch format {
		case "gif":
			out := r.path("occurrence_map.gif")
			if err := writeGIF(out, frames, holds, opt.FPS); err != nil {
				return nil, err
			}
			outputs = append(outputs, out)
		case "avi":
			out := r.path("occurrence_map.avi")
			if err := writeAVI(out, frames, holds, opt.FPS); err != nil {
				return nil, err
			}
			outputs = append(outputs, out)
		default:
			return nil, fmt.Errorf("unsupported animation format: %q (use gif|avi)", format)
		}
	}
	return outputs, nil
}

// frameHolds splits total frames across n steps so the holds sum to total
// exactly, never differing by more than one frame between steps.
func frameHolds(total, n int) []int {
	holds := make([]int, n)
	for i := range holds {
		holds[i] = (i+1)*total/n - i*total/n
	}
	return holds
}

type rect struct {
	minX, maxX, minY, maxY float64
}

func coordinateBounds(recs []derive.Derived) rect {
	b := rect{minX: -180, maxX: 180, minY: -90, maxY: 90}
	if len(recs) == 0 {
		return b
	}
	b = rect{minX: recs[0].Lon, maxX: recs[0].Lon, minY: recs[0].Lat, maxY: recs[0].Lat}
	for _, rec := range recs[1:] {
		if rec.Lon < b.minX {
			b.minX = rec.Lon
		}
		if rec.Lon > b.maxX {
			b.maxX = rec.Lon
		}
		if rec.Lat < b.minY {
			b.minY = rec.Lat
		}
		if rec.Lat > b.maxY {
			b.maxY = rec.Lat
		}
	}
	// pad so edge points are not clipped by the axes
	padX := (b.maxX - b.minX) * 0.05
	padY := (b.maxY - b.minY) * 0.05
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	b.minX -= padX
	b.maxX += padX
	b.minY -= padY
	b.maxY += padY
	return b
}

func distinctYears(recs []derive.Derived) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range recs {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

func distinctCountries(recs []derive.Derived) []string {
	seen := make(map[string]bool)
	var countries []string
	for _, r := range recs {
		if !seen[r.Country] {
			seen[r.Country] = true
			countries = append(countries, r.Country)
		}
	}
	sort.Strings(countries)
	return countries
}

// renderYearFrame draws the scatter of the given year's records, with axis
// ranges fixed across frames so points do not jump between frames.
func renderYearFrame(recs []derive.Derived, year int, bounds rect, countries []string) (image.Image, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Occurrences %d", year)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Min, p.X.Max = bounds.minX, bounds.maxX
	p.Y.Min, p.Y.Max = bounds.minY, bounds.maxY
	p.Add(plotter.NewGrid())

	for ci, country := range countries {
		var pts plotter.XYs
		for _, rec := range recs {
			if rec.Year == year && rec.Country == country {
				pts = append(pts, plotter.XY{X: rec.Lon, Y: rec.Lat})
			}
		}
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("scatter: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Color = plotutil.Color(ci)
		p.Add(sc)
		p.Legend.Add(country, sc)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	c := vgimg.New(8*vg.Inch, 6*vg.Inch)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// writeGIF encodes the frames as an animated GIF, holding frame i for
// holds[i]/fps seconds.
func writeGIF(path string, frames []image.Image, holds []int, fps int) error {
	g := &gif.GIF{}
	for i, frame := range frames {
		delay := holds[i] * 100 / fps // GIF delays are in 1/100s
		if delay < 1 {
			delay = 1
		}
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		imgdraw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, image.Point{})
		g.Image = append(g.Image, paletted)
		g.Delay = append(g.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// writeAVI encodes the frames as an MJPEG AVI, repeating frame i holds[i]
// times so playback timing matches the GIF.
func writeAVI(path string, frames []image.Image, holds []int, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	b := frames[0].Bounds()
	aw, err := mjpeg.New(path, int32(b.Dx()), int32(b.Dy()), int32(fps))
	if err != nil {
		return fmt.Errorf("create avi: %w", err)
	}
	for fi, frame := range frames {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 85}); err != nil {
			aw.Close()
			return fmt.Errorf("encode avi frame: %w", err)
		}
		for i := 0; i < holds[fi]; i++ {
			if err := aw.AddFrame(buf.Bytes()); err != nil {
				aw.Close()
				return fmt.Errorf("write avi frame: %w", err)
			}
		}
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finalize avi: %w", err)
	}
	return nil
}
