package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	gamegrpc "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
)

const (
	gameURIPrefix = "minefield://games/"
	gamesListURI  = "minefield://games"
)

// GameURI returns the resource URI of one game.
func GameURI(gameID string) string {
	if strings.TrimSpace(gameID) == "" {
		return ""
	}
	return gameURIPrefix + gameID
}

// GameListPayload is the readable listing of games.
type GameListPayload struct {
	Games []GameListEntry `json:"games"`
}

// GameListResource defines the readable game listing.
func GameListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "game_list",
		Title:       "Games",
		Description: "Readable listing of the first page of games. URI: minefield://games",
		MIMEType:    "application/json",
		URI:         gamesListURI,
	}
}

// GameListResourceHandler returns the readable game listing.
func GameListResourceHandler(client GameClient) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("game client is not configured")
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		callCtx, _, err := NewOutgoingContext(runCtx, "", "")
		if err != nil {
			return nil, fmt.Errorf("create request metadata: %w", err)
		}

		response, err := client.ListGames(callCtx, &gamegrpc.ListGamesRequest{})
		if err != nil {
			return nil, fmt.Errorf("game list failed: %w", err)
		}
		if response == nil {
			return nil, fmt.Errorf("game list response is missing")
		}

		return jsonResource(gamesListURI, GameListPayload{Games: gameListToResult(response).Games})
	}
}

// GameResourceTemplate defines the readable single game resource.
func GameResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "game",
		Title:       "Game",
		Description: "Readable board and status of one game. URI format: minefield://games/{game_id}",
		MIMEType:    "application/json",
		URITemplate: "minefield://games/{game_id}",
	}
}

// GameResourceHandler returns a readable single game resource.
func GameResourceHandler(client GameClient) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("game client is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("game ID is required; use URI format minefield://games/{game_id}")
		}
		uri := req.Params.URI

		gameID, err := parseGameIDFromURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse game ID from URI: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		callCtx, _, err := NewOutgoingContext(runCtx, "", "")
		if err != nil {
			return nil, fmt.Errorf("create request metadata: %w", err)
		}

		response, err := client.GetGame(callCtx, &gamegrpc.GetGameRequest{GameID: gameID})
		if err != nil {
			if s, ok := status.FromError(err); ok && s.Code() == codes.NotFound {
				return nil, fmt.Errorf("game not found")
			}
			return nil, fmt.Errorf("get game failed: %w", err)
		}
		if response == nil || response.Game == nil {
			return nil, fmt.Errorf("game response is missing")
		}

		return jsonResource(uri, gameToResult(response.Game))
	}
}

// parseGameIDFromURI extracts the id from minefield://games/{game_id},
// rejecting extra path segments, queries, and fragments.
func parseGameIDFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, gameURIPrefix) {
		return "", fmt.Errorf("URI must start with %q", gameURIPrefix)
	}
	gameID := strings.TrimSpace(strings.TrimPrefix(uri, gameURIPrefix))
	if gameID == "" {
		return "", fmt.Errorf("game ID is required in URI")
	}
	if strings.ContainsAny(gameID, "/?#") {
		return "", fmt.Errorf("URI must not contain path segments, query parameters, or fragments after game ID")
	}
	return gameID, nil
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
