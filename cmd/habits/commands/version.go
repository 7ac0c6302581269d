// ABOUTME: Version command prints the build stamp set by main
// ABOUTME: Plain text by default, JSON with --format json
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo is the build stamp injected through ldflags
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

var versionInfo = VersionInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersion records the build stamp; main calls it before Execute
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the habits build stamp",
		Long: `Print the release, commit and build date of this habits binary,
along with the Go runtime it was built with.

Examples:
  habits version
  habits version --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if wantJSON() {
				return printJSON(out, map[string]string{
					"version": versionInfo.Version,
					"commit":  versionInfo.Commit,
					"built":   versionInfo.Date,
					"go":      runtime.Version(),
				})
			}
			_, _ = fmt.Fprintf(out, "habits %s\n", versionInfo.Version)
			_, _ = fmt.Fprintf(out, "Commit: %s\n", versionInfo.Commit)
			_, _ = fmt.Fprintf(out, "Built:  %s\n", versionInfo.Date)
			_, _ = fmt.Fprintf(out, "Go:     %s\n", runtime.Version())
			return nil
		},
	}
}
