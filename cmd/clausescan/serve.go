package clausescan

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/accrava/clausescan/internal/scanner"
	"github.com/accrava/clausescan/internal/server"
)

func init() {
	var opts scanFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scanner over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.resolve("")
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sc := scanner.New(res.engine.Rules, contextOption(res.engine.ContextChars)...)
			srv := server.New(sc, server.Options{MaxBytes: res.engine.MaxBytes})
			return srv.ListenAndServe(ctx, viper.GetString("serve.addr"))
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	_ = viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	cmd.Flags().StringVarP(&opts.path, "path", "p", ".", "directory whose config to load")
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML rules file layered over the configured table")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", 0, "reject uploads larger than this (default 1MiB)")
	cmd.Flags().IntVar(&opts.context, "context", 0, "excerpt context in characters each side (default 60)")
	rootCmd.AddCommand(cmd)
}

func contextOption(n int) []scanner.Option {
	if n <= 0 {
		return nil
	}
	return []scanner.Option{scanner.WithContext(n)}
}
