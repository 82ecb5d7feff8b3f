package interceptors

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/minefield/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/minefield/internal/services/game/observability/audit/events"
	"github.com/louisbranch/minefield/internal/services/game/storage"
)

type fakeAuditStore struct {
	last  storage.AuditEvent
	count int
	err   error
}

func (s *fakeAuditStore) AppendAuditEvent(_ context.Context, evt storage.AuditEvent) error {
	s.last = evt
	s.count++
	return s.err
}

func TestEventNameForMethod(t *testing.T) {
	tests := map[string]string{
		game.GameService_CreateGame_FullMethodName:  events.GameCreate,
		game.GameService_GetGame_FullMethodName:     events.GameRead,
		game.GameService_OpenCell_FullMethodName:    events.GameOpen,
		game.GameService_ToggleFlag_FullMethodName:  events.GameFlag,
		game.GameService_ForceReveal_FullMethodName: events.GameReveal,
		game.GameService_ListGames_FullMethodName:   events.GameRead,
		game.GameService_ListEvents_FullMethodName:  events.GameRead,
	}
	for method, want := range tests {
		if got := eventNameForMethod(method); got != want {
			t.Fatalf("eventNameForMethod(%q) = %q, want %q", method, got, want)
		}
	}
}

func TestExtractGameID(t *testing.T) {
	if got := extractGameID(&game.GetGameRequest{GameID: " g1 "}, nil); got != "g1" {
		t.Fatalf("expected trimmed request game id, got %q", got)
	}
	resp := &game.CreateGameResponse{Game: &game.Game{GameID: "g2"}}
	if got := extractGameID(&game.CreateGameRequest{}, resp); got != "g2" {
		t.Fatalf("expected response game id, got %q", got)
	}
	if got := extractGameID(nil, nil); got != "" {
		t.Fatalf("expected empty game id, got %q", got)
	}
}

func TestAuditInterceptorNoStore(t *testing.T) {
	interceptor := AuditInterceptor(nil)
	info := &grpc.UnaryServerInfo{FullMethod: game.GameService_GetGame_FullMethodName}
	called := false

	_, err := interceptor(context.Background(), &game.GetGameRequest{}, info, func(ctx context.Context, req any) (any, error) {
		called = true
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected handler to be called")
	}
}

func TestAuditInterceptorEmitsEvent(t *testing.T) {
	store := &fakeAuditStore{}
	interceptor := AuditInterceptor(store)
	info := &grpc.UnaryServerInfo{FullMethod: game.GameService_OpenCell_FullMethodName}

	ctx := grpcmeta.WithRequestID(context.Background(), "req-1")
	ctx = grpcmeta.WithInvocationID(ctx, "inv-1")

	req := &game.CellRequest{GameID: "g1", Row: 2, Col: 3}
	_, err := interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return &game.GameResponse{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.count != 1 {
		t.Fatalf("expected event to be emitted, got %d", store.count)
	}
	got := store.last
	if got.EventName != events.GameOpen {
		t.Fatalf("expected event name %s, got %s", events.GameOpen, got.EventName)
	}
	if got.GameID != "g1" || got.Method != game.GameService_OpenCell_FullMethodName {
		t.Fatalf("unexpected scope %s/%s", got.GameID, got.Method)
	}
	if got.Severity != "INFO" || got.Code != codes.OK.String() {
		t.Fatalf("expected INFO/OK, got %s/%s", got.Severity, got.Code)
	}
	if got.Attributes["request_id"] != "req-1" || got.Attributes["invocation_id"] != "inv-1" {
		t.Fatalf("expected request/invocation ids, got %v", got.Attributes)
	}
	if got.Attributes["row"] != int32(2) || got.Attributes["col"] != int32(3) {
		t.Fatalf("expected cell attributes, got %v", got.Attributes)
	}
}

func TestAuditInterceptorErrorSeverity(t *testing.T) {
	store := &fakeAuditStore{}
	interceptor := AuditInterceptor(store)
	info := &grpc.UnaryServerInfo{FullMethod: game.GameService_GetGame_FullMethodName}

	domainErr := apperrors.HandleError(apperrors.New(apperrors.CodeNotFound, "missing"), "en-US")
	_, err := interceptor(context.Background(), &game.GetGameRequest{GameID: "g1"}, info, func(ctx context.Context, req any) (any, error) {
		return nil, domainErr
	})
	if err == nil {
		t.Fatal("expected handler error")
	}
	if store.last.Severity != "ERROR" {
		t.Fatalf("expected error severity, got %s", store.last.Severity)
	}
	if store.last.Code != codes.NotFound.String() {
		t.Fatalf("expected code NotFound, got %s", store.last.Code)
	}
	if store.last.Attributes["reason"] != string(apperrors.CodeNotFound) {
		t.Fatalf("expected reason NOT_FOUND, got %v", store.last.Attributes["reason"])
	}
}

func TestAuditInterceptorStoreErrorIgnored(t *testing.T) {
	store := &fakeAuditStore{err: context.Canceled}
	interceptor := AuditInterceptor(store)
	info := &grpc.UnaryServerInfo{FullMethod: game.GameService_GetGame_FullMethodName}

	resp, err := interceptor(context.Background(), &game.GetGameRequest{}, info, func(ctx context.Context, req any) (any, error) {
		return "ok", status.Error(codes.OK, "")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("expected handler response, got %v", resp)
	}
	if store.count != 1 {
		t.Fatalf("expected event to be emitted, got %d", store.count)
	}
}
