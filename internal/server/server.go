package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"jiramcp/internal/auth"
	"jiramcp/internal/config"
	"jiramcp/internal/tools"
	"jiramcp/pkg/logging"
)

// Version is stamped by the build; the CLI overrides it.
var Version = "dev"

const serverName = "jira-mcp"

// Server hosts the MCP tool surface over one of the three transports.
type Server struct {
	cfg config.ServerConfig

	mu                   sync.Mutex
	mcpServer            *server.MCPServer
	sseServer            *server.SSEServer
	streamableHTTPServer *server.StreamableHTTPServer
}

// New builds a server over the given session. Tool registration happens
// at construction so a misconfigured provider fails before any
// transport is opened.
func New(cfg config.ServerConfig, session *auth.Session) *Server {
	s := &Server{cfg: cfg}

	s.mcpServer = server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(true),
	)
	tools.NewProvider(session).Register(s.mcpServer)
	return s
}

// Run serves until ctx is cancelled or the transport fails. For stdio it
// blocks on the client connection; for the network transports it blocks
// on ctx and then drains with a timeout.
func (s *Server) Run(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.TransportStdio:
		logging.Info("Server", "serving MCP over stdio")
		return server.ServeStdio(s.mcpServer)

	case config.TransportSSE:
		addr := s.cfg.ListenAddress()
		logging.Info("Server", "serving MCP over SSE on %s", addr)
		s.mu.Lock()
		s.sseServer = server.NewSSEServer(
			s.mcpServer,
			server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		sse := s.sseServer
		s.mu.Unlock()
		return s.runHTTP(ctx, addr, sse.Start, sse.Shutdown)

	case config.TransportStreamableHTTP:
		addr := s.cfg.ListenAddress()
		logging.Info("Server", "serving MCP over streamable HTTP on %s", addr)
		s.mu.Lock()
		s.streamableHTTPServer = server.NewStreamableHTTPServer(s.mcpServer)
		httpSrv := s.streamableHTTPServer
		s.mu.Unlock()
		return s.runHTTP(ctx, addr, httpSrv.Start, httpSrv.Shutdown)

	default:
		return fmt.Errorf("unknown transport %q", s.cfg.Transport)
	}
}

// runHTTP starts a network transport in the background and shuts it down
// when ctx ends.
func (s *Server) runHTTP(ctx context.Context, addr string,
	start func(string) error, shutdown func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		if err := start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("transport failed on %s: %w", addr, err)
	case <-ctx.Done():
	}

	logging.Info("Server", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		logging.Error("Server", err, "error during shutdown")
		return err
	}
	return nil
}

// MCPServer exposes the underlying server for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}
