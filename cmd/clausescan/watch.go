package clausescan

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/accrava/clausescan/internal/engine"
	"github.com/accrava/clausescan/internal/report"
)

func init() {
	var opts scanFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-scan documents as they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.resolve("")
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)...\n", res.engine.Root)
			return engine.Watch(ctx, res.engine, func(d engine.Document) {
				fmt.Fprintf(os.Stdout, "== %s\n", d.Path)
				report.PrintTable(os.Stdout, d.Findings, report.PrintOptions{NoColor: res.noColor})
			})
		},
	}
	addSelectionFlags(cmd, &opts)
	rootCmd.AddCommand(cmd)
}
