package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	platformgrpc "github.com/louisbranch/minefield/internal/platform/grpc"
	"github.com/louisbranch/minefield/internal/platform/timeouts"
	gamegrpc "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
	"github.com/louisbranch/minefield/internal/services/mcp/domain"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Minefield MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
	// defaultHTTPAddr keeps the HTTP transport on loopback unless configured.
	defaultHTTPAddr = "localhost:8081"
	// healthCheckInterval spaces background game service health checks.
	healthCheckInterval = 30 * time.Second
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	GRPCAddr  string
	Transport TransportKind
	HTTPAddr  string // HTTP server address. Defaults to localhost:8081 for HTTP transport.
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
	grants    *domain.GrantStore
}

// newServer binds tool and resource handlers to the game service on conn.
func newServer(conn *grpc.ClientConn) (*Server, error) {
	return newServerWithClient(conn, gamegrpc.NewGameServiceClient(conn))
}

// newServerWithClient binds handlers to client. conn is only held for
// health checks and Close and may be nil.
func newServerWithClient(conn *grpc.ClientConn, client domain.GameClient) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	server := &Server{mcpServer: mcpServer, conn: conn, grants: domain.NewGrantStore()}
	resourceNotifier := func(ctx context.Context, uri string) {
		if strings.TrimSpace(uri) == "" {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	for _, module := range newMCPRegistrationModules(client, server.grants, resourceNotifier) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}

	return server, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg.GRPCAddr, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithHTTPTransport creates a server and serves it over HTTP transport.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	addr := grpcAddress(cfg.GRPCAddr)
	conn, err := dialGameGRPC(ctx, addr)
	if err != nil {
		return err
	}
	mcpServer, err := newServer(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer mcpServer.Close()

	healthCtx, healthCancel := context.WithCancel(ctx)
	defer healthCancel()
	go mcpServer.monitorHealth(healthCtx)

	httpTransport := NewHTTPTransportWithServer(httpAddr, mcpServer.mcpServer)
	return httpTransport.Start(ctx)
}

// monitorHealth periodically checks the game service. Failures are logged
// and the HTTP server keeps running; individual calls surface gRPC errors.
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkHealth(ctx)
		}
	}
}

func (s *Server) checkHealth(ctx context.Context) {
	if s.conn == nil {
		log.Printf("gRPC connection is nil, health check skipped")
		return
	}

	healthClient := grpc_health_v1.NewHealthClient(s.conn)
	callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: gamegrpc.ServiceName})
	cancel()

	if err != nil {
		log.Printf("gRPC health check failed: %v", err)
	} else if response.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		log.Printf("gRPC health check status: %s", response.GetStatus().String())
	}
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

// serveWithTransport starts the MCP server using the provided transport and
// closes the gRPC connection when it stops.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, grpcAddr string, transport mcp.Transport) error {
	addr := grpcAddress(grpcAddr)
	conn, err := dialGameGRPC(ctx, addr)
	if err != nil {
		return err
	}
	mcpServer, err := newServer(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	return mcpServer.serveWithTransport(ctx, transport)
}

func dialGameGRPC(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logf := func(format string, args ...any) {
		log.Printf("game %s", fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.DialWithHealth(
		ctx,
		nil,
		addr,
		gamegrpc.ServiceName,
		timeouts.GRPCDial,
		logf,
		platformgrpc.DefaultClientDialOptions()...,
	)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) {
			if dialErr.Stage == platformgrpc.DialStageConnect {
				return nil, fmt.Errorf("connect to game server at %s: %w", addr, dialErr.Err)
			}
			return nil, fmt.Errorf("game server at %s is not healthy: %w", addr, dialErr.Err)
		}
		return nil, err
	}
	return conn, nil
}

// grpcAddress resolves the gRPC address from the explicit fallback or env when empty.
func grpcAddress(fallback string) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	if value := strings.TrimSpace(os.Getenv("MINEFIELD_GAME_ADDR")); value != "" {
		return value
	}
	return fallback
}
