package clausescan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/accrava/clausescan/internal/audit"
)

func init() {
	var root string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			log, err := historyLog(root)
			if err != nil {
				return err
			}
			records, err := log.LoadHistory()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(os.Stdout, "No scans recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tTIME\tFILES\tFINDINGS\tNEW\tHIGH\tMEDIUM\tLOW\tSCAN ID")
			for i, r := range records {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
					i, r.Timestamp.Format("2006-01-02 15:04:05"), r.FilesScanned,
					r.TotalFindings, r.NewFindings,
					r.SeverityCounts["High"], r.SeverityCounts["Medium"], r.SeverityCounts["Low"],
					r.ScanID)
			}
			return tw.Flush()
		},
	}
	cmd.PersistentFlags().StringVarP(&root, "path", "p", ".", "scan root whose history to read")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many records (0 = all)")

	del := &cobra.Command{
		Use:   "delete <index>",
		Short: "Remove one record (index as listed by history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			log, err := historyLog(root)
			if err != nil {
				return err
			}
			if err := log.DeleteRecord(idx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Deleted record %d.\n", idx)
			return nil
		},
	}
	cmd.AddCommand(del)
	rootCmd.AddCommand(cmd)
}

func historyLog(root string) (*audit.AuditLog, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return audit.NewAuditLog(auditRoot(abs)), nil
}
