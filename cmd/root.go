package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"jiramcp/internal/apierr"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
)

// rootCmd is the entry point when the binary is called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "jira-mcp",
	Short: "MCP server exposing Jira Cloud as tools",
	Long: `jira-mcp serves the Jira Cloud REST API to MCP clients as a set of
tools: issues, JQL search, comments, worklogs, projects, boards,
sprints, and users.

Credentials come from, in order: a credential set at runtime through the
auth tools, the JIRA_OAUTH_* environment variables, the
JIRA_BASE_URL/JIRA_EMAIL/JIRA_API_TOKEN variables, or the OS keychain.`,
	SilenceUsage: true,
}

// SetVersion injects the build version into the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the injected build version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the CLI and exits with a semantic code.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "jira-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error kinds to exit codes so scripts can distinguish
// "log in first" from everything else.
func getExitCode(err error) int {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case apierr.KindMissingAuth, apierr.KindUnauthorized:
			return ExitCodeAuthRequired
		}
	}
	return ExitCodeError
}
