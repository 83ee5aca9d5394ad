package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrel-labs/occurrence-atlas/internal/pipeline"
	"github.com/petrel-labs/occurrence-atlas/internal/utils"
)

var (
	aggJSONPath string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <file>",
	Short: "Compute aggregate tables without rendering any charts",
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
		summary := res.Summary(path)
		summary.TopSpecies = conf.TopSpecies

		if aggJSONPath != "" {
			b, err := utils.PrettyJSON(summary)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(aggJSONPath, b); err != nil {
				return fmt.Errorf("write json: %w", err)
			}
			fmt.Printf("✓ Wrote aggregates to %s (run %s)\n", aggJSONPath, summary.RunID)
			return nil
		}

		fmt.Print(summary.Markdown())
		return nil
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&aggJSONPath, "json", "", "write aggregates as JSON to the given path instead of printing markdown")
	rootCmd.AddCommand(aggregateCmd)
}
