package domain

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	gamegrpc "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/minefield/internal/services/game/api/grpc/metadata"
)

type fakeGameClient struct {
	createReq  *gamegrpc.CreateGameRequest
	createResp *gamegrpc.CreateGameResponse
	cellReq    *gamegrpc.CellRequest
	revealReq  *gamegrpc.ForceRevealRequest
	getReq     *gamegrpc.GetGameRequest
	gameResp   *gamegrpc.GameResponse
	listResp   *gamegrpc.ListGamesResponse
	eventsReq  *gamegrpc.ListEventsRequest
	eventsResp *gamegrpc.ListEventsResponse
	err        error
	md         metadata.MD
}

func (f *fakeGameClient) record(ctx context.Context) {
	f.md, _ = metadata.FromOutgoingContext(ctx)
}

func (f *fakeGameClient) CreateGame(ctx context.Context, in *gamegrpc.CreateGameRequest, _ ...grpc.CallOption) (*gamegrpc.CreateGameResponse, error) {
	f.record(ctx)
	f.createReq = in
	return f.createResp, f.err
}

func (f *fakeGameClient) GetGame(ctx context.Context, in *gamegrpc.GetGameRequest, _ ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
	f.record(ctx)
	f.getReq = in
	return f.gameResp, f.err
}

func (f *fakeGameClient) OpenCell(ctx context.Context, in *gamegrpc.CellRequest, _ ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
	f.record(ctx)
	f.cellReq = in
	return f.gameResp, f.err
}

func (f *fakeGameClient) ToggleFlag(ctx context.Context, in *gamegrpc.CellRequest, _ ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
	f.record(ctx)
	f.cellReq = in
	return f.gameResp, f.err
}

func (f *fakeGameClient) ForceReveal(ctx context.Context, in *gamegrpc.ForceRevealRequest, _ ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
	f.record(ctx)
	f.revealReq = in
	return f.gameResp, f.err
}

func (f *fakeGameClient) ListGames(ctx context.Context, _ *gamegrpc.ListGamesRequest, _ ...grpc.CallOption) (*gamegrpc.ListGamesResponse, error) {
	f.record(ctx)
	return f.listResp, f.err
}

func (f *fakeGameClient) ListEvents(ctx context.Context, in *gamegrpc.ListEventsRequest, _ ...grpc.CallOption) (*gamegrpc.ListEventsResponse, error) {
	f.record(ctx)
	f.eventsReq = in
	return f.eventsResp, f.err
}

func testGame(id, phase string) *gamegrpc.Game {
	return &gamegrpc.Game{
		GameID:         id,
		Dimension:      3,
		MineCount:      1,
		RemainingFlags: 1,
		Phase:          phase,
		Status:         "Status: Playing · 1 Mine Left",
		Rows:           []string{"###", "###", "###"},
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

type notifications []string

func (n *notifications) notify(_ context.Context, uri string) {
	*n = append(*n, uri)
}

func TestGameCreateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		seed := int64(42)
		client := &fakeGameClient{createResp: &gamegrpc.CreateGameResponse{
			Game:        testGame("g1", "PLAYING"),
			Seed:        42,
			SeedSource:  "CLIENT",
			PlayerGrant: "token-1",
		}}
		grants := NewGrantStore()
		var sent notifications
		handler := GameCreateHandler(client, grants, sent.notify)

		toolResult, result, err := handler(context.Background(), nil, GameCreateInput{Dimension: 3, Seed: &seed, Locale: "pt-BR"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolResult == nil || toolResult.Meta[grpcmeta.RequestIDHeader] == "" {
			t.Fatalf("expected request id in tool result meta, got %+v", toolResult)
		}
		if result.ID != "g1" || result.Seed != 42 || result.SeedSource != "CLIENT" {
			t.Fatalf("unexpected result: %+v", result)
		}
		if result.CreatedAt != "2026-01-02T03:04:05Z" {
			t.Fatalf("created_at = %q", result.CreatedAt)
		}
		if client.createReq.Dimension != 3 || client.createReq.Seed == nil || *client.createReq.Seed != 42 {
			t.Fatalf("unexpected request: %+v", client.createReq)
		}
		if got := grants.Get("g1"); got != "token-1" {
			t.Fatalf("grant = %q, want token-1", got)
		}
		if got := grpcmeta.FirstMetadataValue(client.md, grpcmeta.LocaleHeader); got != "pt-BR" {
			t.Fatalf("locale header = %q", got)
		}
		if got := grpcmeta.FirstMetadataValue(client.md, grpcmeta.InvocationIDHeader); got == "" {
			t.Fatal("expected invocation id header")
		}
		if len(sent) != 1 || sent[0] != gamesListURI {
			t.Fatalf("notifications = %v", sent)
		}
	})

	t.Run("gRPC error", func(t *testing.T) {
		client := &fakeGameClient{err: status.Error(codes.InvalidArgument, "bad dimension")}
		_, _, err := GameCreateHandler(client, NewGrantStore(), nil)(context.Background(), nil, GameCreateInput{Dimension: 65})
		if err == nil || !strings.Contains(err.Error(), "game create failed") {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if status.Code(errors.Unwrap(err)) != codes.InvalidArgument {
			t.Fatalf("expected status to survive wrapping, got %v", err)
		}
	})

	t.Run("dimension out of range", func(t *testing.T) {
		// 2^32+3 would wrap to a 3x3 board if narrowed blindly.
		wrapsToThree := int64(math.MaxUint32) + 4
		for _, dimension := range []int{0, -1, int(wrapsToThree)} {
			client := &fakeGameClient{}
			_, _, err := GameCreateHandler(client, NewGrantStore(), nil)(context.Background(), nil, GameCreateInput{Dimension: dimension})
			if err == nil || !strings.Contains(err.Error(), "dimension must be between") {
				t.Fatalf("dimension %d: expected range error, got %v", dimension, err)
			}
			if client.createReq != nil {
				t.Fatalf("dimension %d: expected no gRPC call, got %+v", dimension, client.createReq)
			}
		}
	})

	t.Run("missing game", func(t *testing.T) {
		client := &fakeGameClient{createResp: &gamegrpc.CreateGameResponse{}}
		_, _, err := GameCreateHandler(client, NewGrantStore(), nil)(context.Background(), nil, GameCreateInput{Dimension: 3})
		if err == nil {
			t.Fatal("expected error for missing game")
		}
	})
}

func TestCellHandlersUseRememberedGrant(t *testing.T) {
	grants := NewGrantStore()
	grants.Put("g1", "token-1")

	tests := []struct {
		name    string
		handler func(GameClient, *GrantStore, ResourceUpdateNotifier) mcp.ToolHandlerFor[CellInput, GameResult]
	}{
		{name: "open", handler: CellOpenHandler},
		{name: "flag", handler: FlagToggleHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeGameClient{gameResp: &gamegrpc.GameResponse{Game: testGame("g1", "PLAYING")}}
			var sent notifications
			_, result, err := tt.handler(client, grants, sent.notify)(context.Background(), nil, CellInput{GameID: "g1", Row: 1, Col: 2})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.cellReq.PlayerGrant != "token-1" || client.cellReq.Row != 1 || client.cellReq.Col != 2 {
				t.Fatalf("unexpected request: %+v", client.cellReq)
			}
			if result.Phase != "PLAYING" || len(result.Rows) != 3 {
				t.Fatalf("unexpected result: %+v", result)
			}
			if len(sent) != 2 || sent[0] != "minefield://games/g1" {
				t.Fatalf("notifications = %v", sent)
			}
		})
	}
}

func TestCellOpenHandlerError(t *testing.T) {
	client := &fakeGameClient{err: status.Error(codes.NotFound, "game not found")}
	var sent notifications
	_, _, err := CellOpenHandler(client, NewGrantStore(), sent.notify)(context.Background(), nil, CellInput{GameID: "missing"})
	if err == nil || !strings.Contains(err.Error(), "cell open failed") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if len(sent) != 0 {
		t.Fatalf("expected no notifications on failure, got %v", sent)
	}
	if client.cellReq.PlayerGrant != "" {
		t.Fatalf("expected no grant for unknown game, got %q", client.cellReq.PlayerGrant)
	}
}

func TestCellHandlersRejectOutOfRangeCoordinates(t *testing.T) {
	tooBig := int64(math.MaxInt32) + 1
	inputs := []CellInput{
		{GameID: "g1", Row: int(tooBig), Col: 0},
		{GameID: "g1", Row: 0, Col: int(tooBig)},
		{GameID: "g1", Row: -1, Col: 0},
	}
	for _, input := range inputs {
		client := &fakeGameClient{gameResp: &gamegrpc.GameResponse{Game: testGame("g1", "PLAYING")}}
		var sent notifications
		if _, _, err := CellOpenHandler(client, NewGrantStore(), sent.notify)(context.Background(), nil, input); err == nil {
			t.Fatalf("open %+v: expected range error", input)
		}
		if _, _, err := FlagToggleHandler(client, NewGrantStore(), sent.notify)(context.Background(), nil, input); err == nil {
			t.Fatalf("flag %+v: expected range error", input)
		}
		if client.cellReq != nil || len(sent) != 0 {
			t.Fatalf("%+v: expected no gRPC call or notification", input)
		}
	}
}

func TestGameRevealHandler(t *testing.T) {
	grants := NewGrantStore()
	grants.Put("g1", "token-1")
	client := &fakeGameClient{gameResp: &gamegrpc.GameResponse{Game: testGame("g1", "LOST")}}

	_, result, err := GameRevealHandler(client, grants, nil)(context.Background(), nil, GameRevealInput{GameID: "g1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.revealReq.PlayerGrant != "token-1" {
		t.Fatalf("grant = %q", client.revealReq.PlayerGrant)
	}
	if result.Phase != "LOST" {
		t.Fatalf("phase = %q", result.Phase)
	}
}

func TestGameGetHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := &fakeGameClient{gameResp: &gamegrpc.GameResponse{Game: testGame("g1", "WON")}}
		_, result, err := GameGetHandler(client)(context.Background(), nil, GameGetInput{GameID: "g1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.getReq.GameID != "g1" || result.Phase != "WON" {
			t.Fatalf("unexpected request %+v or result %+v", client.getReq, result)
		}
		if got := grpcmeta.FirstMetadataValue(client.md, grpcmeta.LocaleHeader); got != "" {
			t.Fatalf("expected no locale header, got %q", got)
		}
	})

	t.Run("nil response", func(t *testing.T) {
		client := &fakeGameClient{gameResp: &gamegrpc.GameResponse{}}
		_, _, err := GameGetHandler(client)(context.Background(), nil, GameGetInput{GameID: "g1"})
		if err == nil {
			t.Fatal("expected error for missing game")
		}
	})
}

func TestGameListHandler(t *testing.T) {
	client := &fakeGameClient{listResp: &gamegrpc.ListGamesResponse{
		Games: []*gamegrpc.GameSummary{
			{GameID: "g1", Dimension: 3, MineCount: 1, Phase: "PLAYING"},
			nil,
			{GameID: "g2", Dimension: 5, MineCount: 4, Phase: "WON"},
		},
		NextPageToken: "next",
		TotalSize:     7,
	}}
	_, result, err := GameListHandler(client)(context.Background(), nil, GameListInput{PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Games) != 2 || result.Games[1].ID != "g2" || result.Games[1].MineCount != 4 {
		t.Fatalf("unexpected games: %+v", result.Games)
	}
	if result.NextPageToken != "next" || result.TotalSize != 7 {
		t.Fatalf("unexpected paging: %+v", result)
	}
	if result.Games[0].CreatedAt != "" {
		t.Fatalf("expected empty created_at for zero time, got %q", result.Games[0].CreatedAt)
	}
}

func TestGrantStore(t *testing.T) {
	var nilStore *GrantStore
	nilStore.Put("g1", "token")
	if got := nilStore.Get("g1"); got != "" {
		t.Fatalf("nil store returned %q", got)
	}

	store := NewGrantStore()
	store.Put("g1", "")
	if got := store.Get("g1"); got != "" {
		t.Fatalf("empty token stored: %q", got)
	}
	store.Put("g1", "a")
	store.Put("g1", "b")
	if got := store.Get("g1"); got != "b" {
		t.Fatalf("grant = %q, want b", got)
	}
}

func TestMergeResponseMetadata(t *testing.T) {
	sent := ToolCallMetadata{RequestID: "req-sent", InvocationID: "inv-sent"}

	merged := MergeResponseMetadata(sent, nil)
	if merged != sent {
		t.Fatalf("expected sent metadata, got %+v", merged)
	}

	header := metadata.Pairs(grpcmeta.RequestIDHeader, "req-server")
	merged = MergeResponseMetadata(sent, header)
	if merged.RequestID != "req-server" || merged.InvocationID != "inv-sent" {
		t.Fatalf("unexpected merge: %+v", merged)
	}

	result := CallToolResultWithMetadata(ToolCallMetadata{RequestID: "r"})
	if _, ok := result.Meta[grpcmeta.InvocationIDHeader]; ok {
		t.Fatal("expected no invocation id in meta")
	}
}
