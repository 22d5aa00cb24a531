package clausescan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accrava/clausescan/internal/audit"
	"github.com/accrava/clausescan/internal/engine"
	"github.com/accrava/clausescan/internal/logging"
	"github.com/accrava/clausescan/internal/report"
	"github.com/accrava/clausescan/internal/rules"
)

var (
	scanOpts           scanFlags
	flagJSON           bool
	flagSARIF          bool
	flagHTML           string
	flagFailOn         string
	flagUpdateBaseline bool
	flagNoBaseline     bool
	flagNoAudit        bool
	flagAuditRaw       bool
	flagHistory        int
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan contract documents for risky clauses",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	addSelectionFlags(cmd, &scanOpts)
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON")
	cmd.Flags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF")
	cmd.Flags().StringVar(&flagHTML, "html", "", "also write an annotated HTML report to this file")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "lowest severity that fails (low|medium|high, default medium)")
	cmd.Flags().BoolVar(&flagUpdateBaseline, "update-baseline", false, "write baseline file from this scan")
	cmd.Flags().BoolVar(&flagNoBaseline, "no-baseline", false, "report baselined findings too")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append to the scan history")
	cmd.Flags().BoolVar(&flagAuditRaw, "audit-raw", false, "keep contract excerpts in the scan history")
	cmd.Flags().IntVar(&flagHistory, "history", 0, "scan documents changed in the last N commits (0=off)")
}

func addSelectionFlags(cmd *cobra.Command, f *scanFlags) {
	cmd.Flags().StringVarP(&f.path, "path", "p", ".", "file or directory to scan")
	cmd.Flags().StringVar(&f.include, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().StringVar(&f.ext, "ext", "", "comma-separated extensions to scan (default .txt,.md; * for any)")
	cmd.Flags().Int64Var(&f.maxBytes, "max-bytes", 0, "skip files larger than this (default 1MiB)")
	cmd.Flags().IntVar(&f.threads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&f.context, "context", 0, "excerpt context in characters each side (default 60)")
	cmd.Flags().StringVar(&f.rulesFile, "rules", "", "YAML rules file layered over the configured table")
}

func runScan(cmd *cobra.Command, _ []string) error {
	res, err := scanOpts.resolve(flagFailOn)
	if err != nil {
		return err
	}
	cfg := res.engine
	quiet := flagJSON || flagSARIF

	if !quiet {
		fmt.Fprintf(os.Stderr, "Scanning %s with %d rules...\n", cfg.Root, len(cfg.Rules))
	}

	total := 0
	if flagHistory == 0 {
		total, _ = engine.CountTargets(cfg)
	}
	progressed := 0
	if total > 1 && !quiet {
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}
	// Progress runs from worker goroutines; serialize it.
	if cfg.Progress != nil {
		cfg.Progress = serialized(cfg.Progress)
	}

	var out engine.Result
	if flagHistory > 0 {
		out, err = engine.ScanHistory(cmd.Context(), cfg, flagHistory)
	} else {
		out, err = engine.ScanWithStats(cmd.Context(), cfg)
	}
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if cfg.Progress != nil {
		fmt.Fprintln(os.Stderr)
	}

	newFindings := out.Findings
	if !flagNoBaseline {
		baseline, err := report.LoadBaseline(report.DefaultBaselineFile)
		if err != nil && !os.IsNotExist(err) {
			logging.Logger.Warnw("ignoring unreadable baseline", "file", report.DefaultBaselineFile, "error", err)
		}
		newFindings = report.FilterNewFindings(out.Findings, baseline)
	}

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, newFindings, cfg.Rules, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := report.WriteJSON(os.Stdout, newFindings); err != nil {
			return err
		}
	default:
		report.PrintTable(os.Stdout, newFindings, report.PrintOptions{NoColor: res.noColor, Duration: out.Duration, FilesScanned: out.FilesScanned})
	}

	if flagHTML != "" {
		if err := writeHTML(flagHTML, out.Documents, cfg.Rules); err != nil {
			return err
		}
	}

	if flagUpdateBaseline {
		if err := report.SaveBaseline(report.DefaultBaselineFile, out.Findings); err != nil {
			return fmt.Errorf("baseline write error: %w", err)
		}
	}

	if !flagNoAudit {
		log := audit.NewAuditLog(auditRoot(cfg.Root))
		rec := audit.CreateScanRecord(cfg.Root, out.Findings, newFindings, out.FilesScanned, out.Duration, report.DefaultBaselineFile, audit.Options{StoreRaw: flagAuditRaw})
		if err := log.LogScan(rec); err != nil {
			logging.Logger.Warnw("audit log write failed", "path", log.Path(), "error", err)
		}
	}

	// exit codes: 0=ok, 1=findings, 2=error
	if report.ShouldFail(newFindings, res.failOn) {
		logging.Sync()
		os.Exit(1)
	}
	return nil
}

func writeHTML(path string, docs []engine.Document, rs []rules.Rule) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("html report: %w", err)
	}
	if err := report.WriteHTML(f, docs, rs); err != nil {
		_ = f.Close()
		return fmt.Errorf("html report: %w", err)
	}
	return f.Close()
}
