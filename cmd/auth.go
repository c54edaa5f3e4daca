package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jiramcp/internal/auth"
	"jiramcp/pkg/logging"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Jira credentials",
	Long: `Inspect, store, and remove the Jira credential used by the server.

The credential lives in the OS keychain when persisted, so a restarted
server can pick it up without environment variables.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.LevelWarn, os.Stderr)
	},
}

// newCLISession builds a session backed by the OS keychain, the same
// configuration the serve command uses.
func newCLISession() *auth.Session {
	return auth.NewSession(auth.NewStore(auth.SystemVault()), auth.NewOAuthClient())
}

// authPrint writes CLI output to stdout. Kept as a seam so tests can
// capture output.
var authPrint = func(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

func init() {
	rootCmd.AddCommand(authCmd)
}
