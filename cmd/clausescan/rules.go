package clausescan

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/accrava/clausescan/internal/rules"
)

func init() {
	var opts scanFlags
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rule table in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			res, err := opts.resolve("")
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tSEVERITY\tPATTERN")
			for _, r := range res.engine.Rules {
				s := r.Spec()
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Category, s.Severity, s.Pattern)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&opts.path, "path", "p", ".", "directory whose config to resolve")
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML rules file layered over the configured table")

	check := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a rules file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := rules.LoadFile(args[0])
			if err != nil {
				return err
			}
			rs, err := rules.Build(f.Rules, f.ReplaceDefaults)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(os.Stdout, "%s: ok (%d rules active)\n", args[0], len(rs))
			return nil
		},
	}
	cmd.AddCommand(check)
	rootCmd.AddCommand(cmd)
}
