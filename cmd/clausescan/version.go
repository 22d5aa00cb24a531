package clausescan

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(_ *cobra.Command, _ []string) {
			rev, ts, dirty := buildVCS()
			if rev != "" || ts != "" {
				if dirty {
					rev += "-dirty"
				}
				fmt.Printf("%s (commit %s, built %s)\n", version, rev, ts)
				return
			}
			fmt.Println(version)
		},
	}
	rootCmd.AddCommand(cmd)
}

func buildVCS() (rev, ts string, dirty bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = short(s.Value)
		case "vcs.time":
			ts = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return rev, ts, dirty
}

func short(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
