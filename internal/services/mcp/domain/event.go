package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	gamegrpc "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
)

// EventListInput represents the MCP tool input for reading the audit journal.
type EventListInput struct {
	GameID    string `json:"game_id,omitempty" jsonschema:"optional game identifier to scope the listing"`
	Filter    string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter over game_id, event_name, severity, method, code, ts"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum number of events to return (default 50, max 200)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous response to continue listing"`
}

// EventEntry is one audit journal record.
type EventEntry struct {
	Seq        uint64         `json:"seq" jsonschema:"journal sequence number"`
	Timestamp  string         `json:"timestamp" jsonschema:"RFC3339 timestamp of the call"`
	EventName  string         `json:"event_name" jsonschema:"event name such as game.open"`
	Severity   string         `json:"severity" jsonschema:"INFO, WARN, or ERROR"`
	GameID     string         `json:"game_id,omitempty" jsonschema:"game the call addressed"`
	Method     string         `json:"method" jsonschema:"full gRPC method"`
	Code       string         `json:"code" jsonschema:"gRPC status code"`
	Attributes map[string]any `json:"attributes,omitempty" jsonschema:"extra call attributes"`
}

// EventListResult represents the MCP tool output for reading the audit journal.
type EventListResult struct {
	Events        []EventEntry `json:"events" jsonschema:"events in journal order"`
	NextPageToken string       `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
	TotalSize     int          `json:"total_size" jsonschema:"number of events matching the filter"`
}

// EventListTool defines the MCP tool schema for reading the audit journal.
func EventListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "minefield_event_list",
		Description: "Lists audit journal events recorded by the game service, optionally scoped to one game and filtered.",
	}
}

// EventListHandler executes an event list request.
func EventListHandler(client GameClient) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		pageSize, err := int32Arg("page_size", input.PageSize, 0)
		if err != nil {
			return nil, EventListResult{}, err
		}

		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, invocationID, "")
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD

		response, err := client.ListEvents(callCtx, &gamegrpc.ListEventsRequest{
			GameID:    input.GameID,
			Filter:    input.Filter,
			PageSize:  pageSize,
			PageToken: input.PageToken,
		}, grpc.Header(&header))
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("event list failed: %w", err)
		}
		if response == nil {
			return nil, EventListResult{}, fmt.Errorf("event list response is missing")
		}

		result := EventListResult{
			Events:        make([]EventEntry, 0, len(response.Events)),
			NextPageToken: response.NextPageToken,
			TotalSize:     int(response.TotalSize),
		}
		for _, evt := range response.Events {
			if evt == nil {
				continue
			}
			result.Events = append(result.Events, EventEntry{
				Seq:        evt.Seq,
				Timestamp:  evt.Timestamp.UTC().Format(time.RFC3339Nano),
				EventName:  evt.EventName,
				Severity:   evt.Severity,
				GameID:     evt.GameID,
				Method:     evt.Method,
				Code:       evt.Code,
				Attributes: evt.Attributes,
			})
		}

		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}
