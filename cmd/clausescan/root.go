package clausescan

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/accrava/clausescan/internal/logging"
)

// version is overridden at build time with -ldflags "-X ...clausescan.version=v1.2.3".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "clausescan",
	Short:         "Flag risky contract clauses",
	Long:          "clausescan flags risky contract clauses (SLA, penalty, liability, termination, payment, confidentiality, jurisdiction) in text documents.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return logging.Init(viper.GetBool("debug"))
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("config", "", "config file (default: .clausescan.yaml in the scan root)")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	// CLAUSESCAN_DEBUG, CLAUSESCAN_NO_COLOR, CLAUSESCAN_CONFIG, CLAUSESCAN_SERVE_ADDR
	viper.SetEnvPrefix("CLAUSESCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the command tree. Errors exit with status 2; findings at or
// above the fail threshold exit with 1 from the scan command itself.
func Execute() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
