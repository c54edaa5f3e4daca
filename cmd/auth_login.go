package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jiramcp/internal/auth"
)

var (
	loginBaseURL string
	loginEmail   string
	loginToken   string
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a basic-auth credential in the OS keychain",
	Long: `Stores a Jira site URL, email, and API token in the OS keychain.

The API token is read from --token, or interactively from stdin when the
flag is omitted, so it does not end up in shell history.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	token := loginToken
	if token == "" {
		authPrint("API token: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("no API token provided")
	}

	normalized, err := auth.NormalizeBaseURL(loginBaseURL)
	if err != nil {
		return err
	}

	session := newCLISession()
	cred := &auth.BasicCredential{
		BaseURL:  normalized,
		Email:    loginEmail,
		APIToken: auth.NewRedactedToken(token),
	}
	if err := session.Store().Set(cred, true); err != nil {
		return err
	}
	authPrint("Credential for %s stored in the OS keychain.\n", normalized)
	return nil
}

func init() {
	authCmd.AddCommand(authLoginCmd)

	authLoginCmd.Flags().StringVar(&loginBaseURL, "base-url", "", "Jira site URL, e.g. https://acme.atlassian.net")
	authLoginCmd.Flags().StringVar(&loginEmail, "email", "", "account email the API token belongs to")
	authLoginCmd.Flags().StringVar(&loginToken, "token", "", "Jira API token (prompted when omitted)")
	authLoginCmd.MarkFlagRequired("base-url")
	authLoginCmd.MarkFlagRequired("email")
}
