package domain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	gamegrpc "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
)

// GameClient is the subset of the game service used by MCP handlers.
type GameClient interface {
	CreateGame(ctx context.Context, in *gamegrpc.CreateGameRequest, opts ...grpc.CallOption) (*gamegrpc.CreateGameResponse, error)
	GetGame(ctx context.Context, in *gamegrpc.GetGameRequest, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error)
	OpenCell(ctx context.Context, in *gamegrpc.CellRequest, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error)
	ToggleFlag(ctx context.Context, in *gamegrpc.CellRequest, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error)
	ForceReveal(ctx context.Context, in *gamegrpc.ForceRevealRequest, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error)
	ListGames(ctx context.Context, in *gamegrpc.ListGamesRequest, opts ...grpc.CallOption) (*gamegrpc.ListGamesResponse, error)
	ListEvents(ctx context.Context, in *gamegrpc.ListEventsRequest, opts ...grpc.CallOption) (*gamegrpc.ListEventsResponse, error)
}

var _ GameClient = (*gamegrpc.GameServiceClient)(nil)

// GameResult is the MCP view of one game.
type GameResult struct {
	ID             string   `json:"id" jsonschema:"game identifier"`
	Dimension      int      `json:"dimension" jsonschema:"board side length"`
	MineCount      int      `json:"mine_count" jsonschema:"number of mines on the board"`
	RemainingFlags int      `json:"remaining_flags" jsonschema:"flags still available to place"`
	Phase          string   `json:"phase" jsonschema:"game phase (PLAYING, WON, LOST)"`
	Status         string   `json:"status" jsonschema:"localized status line"`
	Rows           []string `json:"rows" jsonschema:"board rows: # hidden, F flagged, . empty, 1-8 adjacent mines, * mine"`
	CreatedAt      string   `json:"created_at" jsonschema:"RFC3339 timestamp when the game was created"`
}

// GameCreateInput represents the MCP tool input for creating a game.
type GameCreateInput struct {
	Dimension int    `json:"dimension" jsonschema:"board side length; the board is dimension x dimension"`
	Seed      *int64 `json:"seed,omitempty" jsonschema:"optional seed that pins the mine layout"`
	Locale    string `json:"locale,omitempty" jsonschema:"optional locale for the status line (en, pt-BR)"`
}

// GameCreateResult represents the MCP tool output for creating a game.
type GameCreateResult struct {
	GameResult
	Seed       int64  `json:"seed" jsonschema:"seed used for the mine layout"`
	SeedSource string `json:"seed_source" jsonschema:"where the seed came from (CLIENT, SERVER)"`
}

// GameCreateTool defines the MCP tool schema for creating a game.
func GameCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "minefield_game_create",
		Description: "Starts a new minesweeper game on a square board. Mines are placed from the seed; pass one to replay a layout.",
	}
}

// GameCreateHandler executes a game create request and remembers its grant.
func GameCreateHandler(client GameClient, grants *GrantStore, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[GameCreateInput, GameCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameCreateInput) (*mcp.CallToolResult, GameCreateResult, error) {
		dimension, err := int32Arg("dimension", input.Dimension, 1)
		if err != nil {
			return nil, GameCreateResult{}, err
		}

		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, GameCreateResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, invocationID, input.Locale)
		if err != nil {
			return nil, GameCreateResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD

		response, err := client.CreateGame(callCtx, &gamegrpc.CreateGameRequest{
			Dimension: dimension,
			Seed:      input.Seed,
		}, grpc.Header(&header))
		if err != nil {
			return nil, GameCreateResult{}, fmt.Errorf("game create failed: %w", err)
		}
		if response == nil || response.Game == nil {
			return nil, GameCreateResult{}, fmt.Errorf("game create response is missing")
		}

		grants.Put(response.Game.GameID, response.PlayerGrant)
		result := GameCreateResult{
			GameResult: gameToResult(response.Game),
			Seed:       response.Seed,
			SeedSource: response.SeedSource,
		}

		NotifyResourceUpdates(ctx, notify, gamesListURI)
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

// GameGetInput represents the MCP tool input for reading a game.
type GameGetInput struct {
	GameID string `json:"game_id" jsonschema:"game identifier"`
	Locale string `json:"locale,omitempty" jsonschema:"optional locale for the status line (en, pt-BR)"`
}

// GameGetTool defines the MCP tool schema for reading a game.
func GameGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "minefield_game_get",
		Description: "Returns the current board and status of a game.",
	}
}

// GameGetHandler executes a game read request.
func GameGetHandler(client GameClient) mcp.ToolHandlerFor[GameGetInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameGetInput) (*mcp.CallToolResult, GameResult, error) {
		return callGame(ctx, input.Locale, "game get", func(callCtx context.Context, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
			return client.GetGame(callCtx, &gamegrpc.GetGameRequest{GameID: input.GameID}, opts...)
		})
	}
}

// CellInput addresses one cell of a game.
type CellInput struct {
	GameID string `json:"game_id" jsonschema:"game identifier"`
	Row    int    `json:"row" jsonschema:"zero-based row"`
	Col    int    `json:"col" jsonschema:"zero-based column"`
	Locale string `json:"locale,omitempty" jsonschema:"optional locale for the status line (en, pt-BR)"`
}

// CellOpenTool defines the MCP tool schema for opening a cell.
func CellOpenTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "minefield_cell_open",
		Description: "Opens a hidden cell. Opening a mine loses the game; opening an empty cell reveals its empty neighborhood.",
	}
}

// CellOpenHandler executes a cell open request.
func CellOpenHandler(client GameClient, grants *GrantStore, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CellInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CellInput) (*mcp.CallToolResult, GameResult, error) {
		req, err := cellRequest(input, grants)
		if err != nil {
			return nil, GameResult{}, err
		}
		toolResult, result, err := callGame(ctx, input.Locale, "cell open", func(callCtx context.Context, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
			return client.OpenCell(callCtx, req, opts...)
		})
		if err == nil {
			NotifyResourceUpdates(ctx, notify, GameURI(result.ID), gamesListURI)
		}
		return toolResult, result, err
	}
}

// FlagToggleTool defines the MCP tool schema for toggling a flag.
func FlagToggleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "minefield_flag_toggle",
		Description: "Places a flag on a hidden cell or removes an existing one. The game is won once every mine is flagged.",
	}
}

// FlagToggleHandler executes a flag toggle request.
func FlagToggleHandler(client GameClient, grants *GrantStore, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CellInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CellInput) (*mcp.CallToolResult, GameResult, error) {
		req, err := cellRequest(input, grants)
		if err != nil {
			return nil, GameResult{}, err
		}
		toolResult, result, err := callGame(ctx, input.Locale, "flag toggle", func(callCtx context.Context, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
			return client.ToggleFlag(callCtx, req, opts...)
		})
		if err == nil {
			NotifyResourceUpdates(ctx, notify, GameURI(result.ID), gamesListURI)
		}
		return toolResult, result, err
	}
}

// GameRevealInput represents the MCP tool input for giving up a game.
type GameRevealInput struct {
	GameID string `json:"game_id" jsonschema:"game identifier"`
	Locale string `json:"locale,omitempty" jsonschema:"optional locale for the status line (en, pt-BR)"`
}

// GameRevealTool defines the MCP tool schema for revealing a game.
func GameRevealTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "minefield_game_reveal",
		Description: "Gives up the game and reveals every cell. A game in progress is lost; a finished game keeps its result.",
	}
}

// GameRevealHandler executes a force reveal request.
func GameRevealHandler(client GameClient, grants *GrantStore, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[GameRevealInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameRevealInput) (*mcp.CallToolResult, GameResult, error) {
		toolResult, result, err := callGame(ctx, input.Locale, "game reveal", func(callCtx context.Context, opts ...grpc.CallOption) (*gamegrpc.GameResponse, error) {
			return client.ForceReveal(callCtx, &gamegrpc.ForceRevealRequest{
				GameID:      input.GameID,
				PlayerGrant: grants.Get(input.GameID),
			}, opts...)
		})
		if err == nil {
			NotifyResourceUpdates(ctx, notify, GameURI(result.ID), gamesListURI)
		}
		return toolResult, result, err
	}
}

// GameListInput represents the MCP tool input for listing games.
type GameListInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum number of games to return (default 10, max 50)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous response to continue listing"`
}

// GameListEntry summarizes one game.
type GameListEntry struct {
	ID             string `json:"id" jsonschema:"game identifier"`
	Dimension      int    `json:"dimension" jsonschema:"board side length"`
	MineCount      int    `json:"mine_count" jsonschema:"number of mines on the board"`
	RemainingFlags int    `json:"remaining_flags" jsonschema:"flags still available to place"`
	Phase          string `json:"phase" jsonschema:"game phase (PLAYING, WON, LOST)"`
	CreatedAt      string `json:"created_at" jsonschema:"RFC3339 timestamp when the game was created"`
}

// GameListResult represents the MCP tool output for listing games.
type GameListResult struct {
	Games         []GameListEntry `json:"games" jsonschema:"games in creation order"`
	NextPageToken string          `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
	TotalSize     int             `json:"total_size" jsonschema:"number of games held by the service"`
}

// GameListTool defines the MCP tool schema for listing games.
func GameListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "minefield_game_list",
		Description: "Lists games in creation order.",
	}
}

// GameListHandler executes a game list request.
func GameListHandler(client GameClient) mcp.ToolHandlerFor[GameListInput, GameListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameListInput) (*mcp.CallToolResult, GameListResult, error) {
		pageSize, err := int32Arg("page_size", input.PageSize, 0)
		if err != nil {
			return nil, GameListResult{}, err
		}

		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, GameListResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, invocationID, "")
		if err != nil {
			return nil, GameListResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD

		response, err := client.ListGames(callCtx, &gamegrpc.ListGamesRequest{
			PageSize:  pageSize,
			PageToken: input.PageToken,
		}, grpc.Header(&header))
		if err != nil {
			return nil, GameListResult{}, fmt.Errorf("game list failed: %w", err)
		}
		if response == nil {
			return nil, GameListResult{}, fmt.Errorf("game list response is missing")
		}

		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), gameListToResult(response), nil
	}
}

// callGame runs one game RPC with fresh correlation metadata and maps the
// returned game.
func callGame(
	ctx context.Context,
	locale string,
	op string,
	call func(context.Context, ...grpc.CallOption) (*gamegrpc.GameResponse, error),
) (*mcp.CallToolResult, GameResult, error) {
	invocationID, err := NewInvocationID()
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("generate invocation id: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
	defer cancel()

	callCtx, callMeta, err := NewOutgoingContext(runCtx, invocationID, locale)
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("create request metadata: %w", err)
	}

	var header metadata.MD

	response, err := call(callCtx, grpc.Header(&header))
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("%s failed: %w", op, err)
	}
	if response == nil || response.Game == nil {
		return nil, GameResult{}, fmt.Errorf("%s response is missing", op)
	}

	return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), gameToResult(response.Game), nil
}

func cellRequest(input CellInput, grants *GrantStore) (*gamegrpc.CellRequest, error) {
	row, err := int32Arg("row", input.Row, 0)
	if err != nil {
		return nil, err
	}
	col, err := int32Arg("col", input.Col, 0)
	if err != nil {
		return nil, err
	}
	return &gamegrpc.CellRequest{
		GameID:      input.GameID,
		Row:         row,
		Col:         col,
		PlayerGrant: grants.Get(input.GameID),
	}, nil
}

// int32Arg narrows an integer tool argument, rejecting values outside
// [minValue, math.MaxInt32] instead of letting them wrap.
func int32Arg(name string, value, minValue int) (int32, error) {
	if value < minValue || value > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be between %d and %d", name, minValue, math.MaxInt32)
	}
	return int32(value), nil
}

func gameToResult(game *gamegrpc.Game) GameResult {
	return GameResult{
		ID:             game.GameID,
		Dimension:      int(game.Dimension),
		MineCount:      int(game.MineCount),
		RemainingFlags: int(game.RemainingFlags),
		Phase:          game.Phase,
		Status:         game.Status,
		Rows:           game.Rows,
		CreatedAt:      formatTimestamp(game.CreatedAt),
	}
}

func gameListToResult(response *gamegrpc.ListGamesResponse) GameListResult {
	result := GameListResult{
		Games:         make([]GameListEntry, 0, len(response.Games)),
		NextPageToken: response.NextPageToken,
		TotalSize:     int(response.TotalSize),
	}
	for _, game := range response.Games {
		if game == nil {
			continue
		}
		result.Games = append(result.Games, GameListEntry{
			ID:             game.GameID,
			Dimension:      int(game.Dimension),
			MineCount:      int(game.MineCount),
			RemainingFlags: int(game.RemainingFlags),
			Phase:          game.Phase,
			CreatedAt:      formatTimestamp(game.CreatedAt),
		})
	}
	return result
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
