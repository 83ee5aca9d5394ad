package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/petrel-labs/occurrence-atlas/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set occatlas configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("out_dir: %s\n", cfg.OutDir)
		fmt.Printf("delimiter: %s\n", cfg.Delimiter)
		fmt.Printf("process_id_column: %s\n", cfg.ProcessIDColumn)
		fmt.Printf("species_column: %s\n", cfg.SpeciesColumn)
		fmt.Printf("lat_column: %s\n", cfg.LatColumn)
		fmt.Printf("lon_column: %s\n", cfg.LonColumn)
		fmt.Printf("country_column: %s\n", cfg.CountryColumn)
		fmt.Printf("century_base: %d\n", cfg.CenturyBase)
		fmt.Printf("year_min: %d\n", cfg.YearMin)
		fmt.Printf("year_max: %d\n", cfg.YearMax)
		fmt.Printf("top_species: %d\n", cfg.TopSpecies)
		fmt.Printf("animation_duration_sec: %d\n", cfg.AnimationDurationSec)
		fmt.Printf("animation_fps: %d\n", cfg.AnimationFPS)
		fmt.Printf("animation_formats: %s\n", strings.Join(cfg.AnimationFormats, ","))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "out_dir":
			cfg.OutDir = val
		case "delimiter":
			switch val {
			case "tab", ",", ";":
				cfg.Delimiter = val
			default:
				return fmt.Errorf("invalid delimiter: %s (use tab|,|;)", val)
			}
		case "process_id_column":
			cfg.ProcessIDColumn = val
		case "species_column":
			cfg.SpeciesColumn = val
		case "lat_column":
			cfg.LatColumn = val
		case "lon_column":
			cfg.LonColumn = val
		case "country_column":
			cfg.CountryColumn = val
		case "century_base", "year_min", "year_max", "top_species",
			"animation_duration_sec", "animation_fps":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid %s: %s (expect a non-negative integer)", key, val)
			}
			switch key {
			case "century_base":
				cfg.CenturyBase = n
			case "year_min":
				cfg.YearMin = n
			case "year_max":
				cfg.YearMax = n
			case "top_species":
				cfg.TopSpecies = n
			case "animation_duration_sec":
				cfg.AnimationDurationSec = n
			case "animation_fps":
				cfg.AnimationFPS = n
			}
		case "animation_formats":
			var formats []string
			for _, f := range strings.Split(val, ",") {
				f = strings.TrimSpace(f)
				if f != "gif" && f != "avi" {
					return fmt.Errorf("invalid animation format: %s (use gif|avi)", f)
				}
				formats = append(formats, f)
			}
			cfg.AnimationFormats = formats
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
