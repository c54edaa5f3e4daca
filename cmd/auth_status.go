package cmd

import (
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the credential the server would use",
	Long: `Shows which credential source the server would use right now,
following the same priority order as the tools: in-memory, OAuth
environment variables, basic-auth environment variables, OS keychain.

Secrets are never printed.`,
	Args: cobra.NoArgs,
	RunE: runAuthStatus,
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	status := newCLISession().Status()

	if !status.Authenticated {
		authPrint("Status:  %s\n", text.FgYellow.Sprint("Not authenticated"))
		authPrint("Hint:    set JIRA_BASE_URL/JIRA_EMAIL/JIRA_API_TOKEN, the JIRA_OAUTH_* variables, or run 'jira-mcp auth login'\n")
		return nil
	}

	authPrint("Status:  %s\n", text.FgGreen.Sprint("Authenticated"))
	authPrint("Method:  %s\n", status.Method)
	authPrint("Source:  %s\n", status.Source)
	if status.Detail != "" {
		authPrint("Detail:  %s\n", status.Detail)
	}
	if status.ExpiresAt != "" {
		authPrint("Expires: %s\n", status.ExpiresAt)
	}
	return nil
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}
