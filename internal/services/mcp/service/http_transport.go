package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/minefield/internal/platform/config"
	"github.com/louisbranch/minefield/internal/platform/timeouts"
)

var listenTCP = net.Listen

// mcpHTTPEnv holds env-parsed configuration for MCP HTTP transport.
type mcpHTTPEnv struct {
	AllowedHosts []string `env:"MINEFIELD_MCP_ALLOWED_HOSTS" envSeparator:","`
}

// HTTPTransport serves an MCP server over streamable HTTP on /mcp. Requests
// whose Host is neither loopback nor in the allowed list are rejected.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	server       *mcp.Server
	httpServer   *http.Server
}

// NewHTTPTransport creates a transport bound to addr, defaulting to loopback.
func NewHTTPTransport(addr string) *HTTPTransport {
	if addr == "" {
		addr = defaultHTTPAddr
	}
	var raw mcpHTTPEnv
	if err := config.ParseEnv(&raw); err != nil {
		log.Printf("mcp http env: %v", err)
	}
	return &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(raw.AllowedHosts),
	}
}

// NewHTTPTransportWithServer creates a transport that serves server.
func NewHTTPTransportWithServer(addr string, server *mcp.Server) *HTTPTransport {
	transport := NewHTTPTransport(addr)
	transport.server = server
	return transport
}

// Handler returns the HTTP routes for the transport.
func (t *HTTPTransport) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return t.server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", t.requireAllowedHost(streamable))
	mux.HandleFunc("/mcp/health", t.handleHealth)
	return mux
}

// Start serves HTTP until ctx ends, then shuts down gracefully.
func (t *HTTPTransport) Start(ctx context.Context) error {
	if t.server == nil {
		return fmt.Errorf("MCP server is not configured")
	}

	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.addr, err)
	}

	t.httpServer = &http.Server{
		Handler:           t.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	log.Printf("Starting MCP HTTP server on %s", listener.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := t.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

func (t *HTTPTransport) requireAllowedHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.isAllowedHostHeader(r.Host) {
			http.Error(w, "host not allowed", http.StatusForbidden)
			return
		}
		if origin := r.Header.Get("Origin"); origin != "" && !t.isAllowedOrigin(origin) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}

func (t *HTTPTransport) isAllowedHostHeader(host string) bool {
	resolvedHost, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolvedHost) {
		return true
	}
	_, ok = t.allowedHosts[strings.ToLower(resolvedHost)]
	return ok
}

func (t *HTTPTransport) isAllowedOrigin(origin string) bool {
	origin = strings.TrimSpace(origin)
	if idx := strings.Index(origin, "://"); idx >= 0 {
		origin = origin[idx+3:]
	}
	if idx := strings.IndexAny(origin, "/?#"); idx >= 0 {
		origin = origin[:idx]
	}
	return t.isAllowedHostHeader(origin)
}

// isLoopbackHost reports whether a host is an explicit loopback name.
func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		result[strings.ToLower(trimmed)] = struct{}{}
	}
	return result
}

// normalizeHost extracts the hostname portion from Host/Origin headers.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}

	if strings.HasPrefix(host, "[") {
		if splitHost, _, err := net.SplitHostPort(host); err == nil {
			return splitHost, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), true
		}
		return "", false
	}

	if strings.Count(host, ":") > 1 {
		return host, true
	}

	if strings.Contains(host, ":") {
		splitHost, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return splitHost, true
	}

	return host, true
}
