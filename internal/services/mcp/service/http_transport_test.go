package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestHTTPTransportHealth(t *testing.T) {
	transport := NewHTTPTransport("")
	if transport.addr != defaultHTTPAddr {
		t.Fatalf("addr = %q, want default", transport.addr)
	}

	rec := httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://localhost/mcp/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "http://localhost/mcp/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST health = %d", rec.Code)
	}
}

func TestHTTPTransportRejectsForeignHosts(t *testing.T) {
	t.Setenv("MINEFIELD_MCP_ALLOWED_HOSTS", "mcp.example.com")
	server, err := newServerWithClient(nil, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	handler := NewHTTPTransportWithServer("127.0.0.1:0", server.mcpServer).Handler()

	tests := []struct {
		name   string
		host   string
		origin string
		want   int
	}{
		{name: "foreign host", host: "evil.example.com", want: http.StatusForbidden},
		{name: "foreign origin", host: "localhost:8081", origin: "http://evil.example.com", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://localhost/mcp", strings.NewReader("{}"))
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestIsAllowedHostHeader(t *testing.T) {
	transport := &HTTPTransport{allowedHosts: parseAllowedHosts([]string{" MCP.example.com ", ""})}
	tests := []struct {
		host string
		want bool
	}{
		{host: "localhost:8081", want: true},
		{host: "127.0.0.1", want: true},
		{host: "[::1]:8081", want: true},
		{host: "mcp.example.com", want: true},
		{host: "mcp.example.com:443", want: true},
		{host: "other.example.com", want: false},
		{host: "", want: false},
		{host: "[::1", want: false},
	}
	for _, tt := range tests {
		if got := transport.isAllowedHostHeader(tt.host); got != tt.want {
			t.Errorf("isAllowedHostHeader(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
	if !transport.isAllowedOrigin("https://mcp.example.com/app") {
		t.Error("expected allowed origin")
	}
}

func TestHTTPTransportServesStreamableMCP(t *testing.T) {
	server, err := newServerWithClient(nil, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	httpServer := httptest.NewServer(NewHTTPTransportWithServer("", server.mcpServer).Handler())
	defer httpServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: httpServer.URL + "/mcp"}, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools.Tools) != 7 {
		t.Fatalf("expected 7 tools, got %d", len(tools.Tools))
	}
}

func TestHTTPTransportStartRequiresServer(t *testing.T) {
	if err := NewHTTPTransport("127.0.0.1:0").Start(context.Background()); err == nil {
		t.Fatal("expected error without MCP server")
	}
}

func TestHTTPTransportStartStopsOnCancel(t *testing.T) {
	server, err := newServerWithClient(nil, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	transport := NewHTTPTransportWithServer("127.0.0.1:0", server.mcpServer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- transport.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("start did not stop after cancel")
	}
}
