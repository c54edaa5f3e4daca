package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"jiramcp/internal/auth"
	"jiramcp/internal/config"
	"jiramcp/internal/server"
	"jiramcp/pkg/logging"
)

var (
	serveTransport  string
	serveListen     string
	serveDebug      bool
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the MCP server on the selected transport.

stdio (the default) talks MCP over stdin/stdout for clients that spawn
the server as a subprocess. sse and streamable-http listen on a network
address for clients that connect over HTTP.

Settings load from ` + "`~/.config/jira-mcp/config.yaml`" + ` when present;
environment variables and flags override it.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if serveDebug {
		level = logging.LevelDebug
	}
	// stdout carries the stdio transport; logs always go to stderr.
	logging.Init(level, os.Stderr)

	session := auth.NewSession(auth.NewStore(auth.SystemVault()), auth.NewOAuthClient())
	srv := server.New(cfg.Server, session)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func loadServeConfig() (config.Config, error) {
	configPath := serveConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}
	if serveListen != "" {
		host, portStr, err := net.SplitHostPort(serveListen)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid --listen address %q: %w", serveListen, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid --listen port %q", portStr)
		}
		cfg.Server.Host = host
		cfg.Server.Port = port
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", "",
		"MCP transport: stdio, sse, or streamable-http (default stdio)")
	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"listen address for the network transports, e.g. localhost:8585")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "",
		"configuration directory (default ~/.config/jira-mcp)")
}
