package clausescan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accrava/clausescan/internal/engine"
)

func init() {
	var opts scanFlags
	cmd := &cobra.Command{
		Use:   "annotate <file>",
		Short: "Print a document with risky clauses wrapped in highlight spans",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.path = args[0]
			res, err := opts.resolve("")
			if err != nil {
				return err
			}
			doc, err := engine.ScanFile(res.engine, res.engine.Root)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, doc.Annotated)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML rules file layered over the configured table")
	rootCmd.AddCommand(cmd)
}
