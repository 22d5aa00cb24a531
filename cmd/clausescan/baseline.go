package clausescan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accrava/clausescan/internal/engine"
	"github.com/accrava/clausescan/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var opts scanFlags
	update := &cobra.Command{
		Use:   "update",
		Short: "Update baseline from current scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.resolve("")
			if err != nil {
				return err
			}
			results, err := engine.Scan(cmd.Context(), res.engine)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(report.DefaultBaselineFile, results); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Baseline updated (%d findings).\n", len(results))
			return nil
		},
	}
	addSelectionFlags(update, &opts)

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
