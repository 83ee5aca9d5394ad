package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petrel-labs/occurrence-atlas/internal/pipeline"
	"github.com/petrel-labs/occurrence-atlas/internal/render"
	"github.com/petrel-labs/occurrence-atlas/internal/utils"
)

var (
	repTopSpecies int
	repNoAnimate  bool
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Run the full pipeline: aggregates, charts, animation, and a run summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		conf, err := effectiveConfig()
		if err != nil {
			return err
		}
		opt, err := pipeline.FromConfig(conf)
		if err != nil {
			return err
		}

		res, err := pipeline.Run(path, opt)
		if err != nil {
			return err
		}
		debugf("loaded %d rows, %d dropped, %d year-rejected, %d delta rows\n",
			res.RowsLoaded, res.Dropped, res.YearRejected, len(res.Deltas))

		if err := utils.EnsureDir(conf.OutDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		r := render.Renderer{OutDir: conf.OutDir}

		top := conf.TopSpecies
		if cmd.Flags().Changed("top-species") && repTopSpecies > 0 {
			top = repTopSpecies
		}

		var artifacts []string
		out, err := r.LatitudeBoxplot(res.Records)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, out)
		out, err = r.YearHistogram(res.Derived)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, out)
		out, err = r.SpeciesBar(res.Species, top)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, out)
		out, err = r.HemisphereStackedBar(res.Hemisphere, top)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, out)
		out, err = r.DriftFacets(res.Means)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, out)

		if !repNoAnimate {
			anim := render.AnimationOptions{
				DurationSec: conf.AnimationDurationSec,
				FPS:         conf.AnimationFPS,
				Formats:     conf.AnimationFormats,
			}
			outs, err := r.AnimatedScatter(res.Derived, anim)
			if err != nil {
				return err
			}
			artifacts = append(artifacts, outs...)
		}

		summary := res.Summary(path)
		summary.TopSpecies = top
		summary.Artifacts = artifacts
		summaryPath := filepath.Join(conf.OutDir, "summary.md")
		if err := utils.SafeWriteFile(summaryPath, []byte(summary.Markdown())); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}

		fmt.Printf("✓ Wrote %d artifacts to %s (run %s)\n", len(artifacts)+1, conf.OutDir, summary.RunID)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&repTopSpecies, "top-species", 0, "number of species in the bar charts (overrides config)")
	reportCmd.Flags().BoolVar(&repNoAnimate, "no-animate", false, "skip the animated occurrence map")
	rootCmd.AddCommand(reportCmd)
}
