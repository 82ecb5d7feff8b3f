package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"

	platformgrpc "github.com/louisbranch/minefield/internal/platform/grpc"
	gamegrpc "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/minefield/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/minefield/internal/services/game/domain/grant"
)

// startGameServer runs a real game service with health on 127.0.0.1:0.
// withGrants enables player grants so callers must present a token.
func startGameServer(t *testing.T, withGrants bool) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	deps := gamegrpc.Deps{}
	if withGrants {
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		deps.Grants = grant.Config{Key: key, TTL: time.Hour}
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcmeta.UnaryServerInterceptor(nil)))
	gamegrpc.RegisterGameServiceServer(grpcServer, gamegrpc.NewGameService(deps))
	healthServer := platformgrpc.RegisterHealth(grpcServer, gamegrpc.ServiceName)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()

	t.Cleanup(func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		_ = listener.Close()
		select {
		case <-serveErr:
		case <-time.After(time.Second):
		}
	})

	return listener.Addr().String()
}

// connectClient connects an MCP client to serverTransport's peer.
func connectClient(t *testing.T, clientTransport mcp.Transport) *mcp.ClientSession {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// callTool invokes name and decodes its structured content into out.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any, out any) *mcp.CallToolResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	if result.IsError {
		t.Fatalf("call %s returned tool error: %+v", name, result.Content)
	}
	if out != nil {
		data, err := json.Marshal(result.StructuredContent)
		if err != nil {
			t.Fatalf("encode %s content: %v", name, err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("decode %s content: %v", name, err)
		}
	}
	return result
}
