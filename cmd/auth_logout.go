package cmd

import (
	"github.com/spf13/cobra"
)

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	Long:  `Removes the Jira credential from memory and from the OS keychain.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		newCLISession().Store().Clear()
		authPrint("Credential cleared.\n")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLogoutCmd)
}
