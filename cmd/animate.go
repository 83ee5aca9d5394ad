package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petrel-labs/occurrence-atlas/internal/pipeline"
	"github.com/petrel-labs/occurrence-atlas/internal/render"
	"github.com/petrel-labs/occurrence-atlas/internal/utils"
)

var (
	aniDuration int
	aniFPS      int
	aniFormats  string
)

var animateCmd = &cobra.Command{
	Use:   "animate <file>",
	Short: "Render only the time-animated occurrence map",
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

		anim := render.AnimationOptions{
			DurationSec: conf.AnimationDurationSec,
			FPS:         conf.AnimationFPS,
			Formats:     conf.AnimationFormats,
		}
		if cmd.Flags().Changed("duration") && aniDuration > 0 {
			anim.DurationSec = aniDuration
		}
		if cmd.Flags().Changed("fps") && aniFPS > 0 {
			anim.FPS = aniFPS
		}
		if aniFormats != "" {
			anim.Formats = nil
			for _, f := range strings.Split(aniFormats, ",") {
				if f = strings.TrimSpace(f); f != "" {
					anim.Formats = append(anim.Formats, f)
				}
			}
		}

		if err := utils.EnsureDir(conf.OutDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		r := render.Renderer{OutDir: conf.OutDir}
		outs, err := r.AnimatedScatter(res.Derived, anim)
		if err != nil {
			return err
		}
		for _, out := range outs {
			fmt.Printf("✓ Wrote %s\n", out)
		}
		return nil
	},
}

func init() {
	animateCmd.Flags().IntVar(&aniDuration, "duration", 0, "total playback length in seconds (overrides config)")
	animateCmd.Flags().IntVar(&aniFPS, "fps", 0, "frames per second (overrides config)")
	animateCmd.Flags().StringVar(&aniFormats, "formats", "", "comma-separated container formats: gif,avi (overrides config)")
	rootCmd.AddCommand(animateCmd)
}
