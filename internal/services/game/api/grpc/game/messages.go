package game

import (
	"strings"
	"time"
)

// CreateGameRequest starts a new game. Seed pins the layout when set.
type CreateGameRequest struct {
	Dimension int32  `json:"dimension"`
	Seed      *int64 `json:"seed,omitempty"`
}

// CreateGameResponse carries the new game and the grant required to play it.
type CreateGameResponse struct {
	Game        *Game  `json:"game"`
	Seed        int64  `json:"seed"`
	SeedSource  string `json:"seed_source"`
	PlayerGrant string `json:"player_grant,omitempty"`
}

// GetGameID returns the created game id.
func (r *CreateGameResponse) GetGameID() string {
	if r == nil || r.Game == nil {
		return ""
	}
	return r.Game.GameID
}

// GetGameRequest reads one game.
type GetGameRequest struct {
	GameID string `json:"game_id"`
}

// GetGameID returns the addressed game.
func (r *GetGameRequest) GetGameID() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.GameID)
}

// CellRequest addresses one cell of a game. It is shared by OpenCell and
// ToggleFlag.
type CellRequest struct {
	GameID      string `json:"game_id"`
	Row         int32  `json:"row"`
	Col         int32  `json:"col"`
	PlayerGrant string `json:"player_grant,omitempty"`
}

// GetGameID returns the addressed game.
func (r *CellRequest) GetGameID() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.GameID)
}

// AuditAttributes returns the addressed cell for the audit journal.
func (r *CellRequest) AuditAttributes() map[string]any {
	if r == nil {
		return nil
	}
	return map[string]any{"row": r.Row, "col": r.Col}
}

// ForceRevealRequest gives up a game.
type ForceRevealRequest struct {
	GameID      string `json:"game_id"`
	PlayerGrant string `json:"player_grant,omitempty"`
}

// GetGameID returns the addressed game.
func (r *ForceRevealRequest) GetGameID() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.GameID)
}

// GameResponse wraps the game returned by reads and moves.
type GameResponse struct {
	Game *Game `json:"game"`
}

// Game is the client view of one game.
type Game struct {
	GameID         string       `json:"game_id"`
	Dimension      int32        `json:"dimension"`
	MineCount      int32        `json:"mine_count"`
	RemainingFlags int32        `json:"remaining_flags"`
	Phase          string       `json:"phase"`
	Status         string       `json:"status"`
	Cells          [][]CellView `json:"cells"`
	Rows           []string     `json:"rows"`
	CreatedAt      time.Time    `json:"created_at"`
}

// CellView is one visible cell. Value is set only for revealed cells that
// are not mines.
type CellView struct {
	State string `json:"state"`
	Value int32  `json:"value,omitempty"`
	Mine  bool   `json:"mine,omitempty"`
}

// ListGamesRequest pages through games in creation order.
type ListGamesRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// ListGamesResponse is one page of games.
type ListGamesResponse struct {
	Games         []*GameSummary `json:"games"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	TotalSize     int32          `json:"total_size"`
}

// GameSummary describes a game without its cells.
type GameSummary struct {
	GameID         string    `json:"game_id"`
	Dimension      int32     `json:"dimension"`
	MineCount      int32     `json:"mine_count"`
	RemainingFlags int32     `json:"remaining_flags"`
	Phase          string    `json:"phase"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListEventsRequest pages through the audit journal. Filter is an AIP-160
// expression over game_id, event_name, severity, method, code, and ts.
type ListEventsRequest struct {
	GameID    string `json:"game_id,omitempty"`
	Filter    string `json:"filter,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// GetGameID returns the game the listing is scoped to, if any.
func (r *ListEventsRequest) GetGameID() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.GameID)
}

// ListEventsResponse is one page of audit events.
type ListEventsResponse struct {
	Events        []*AuditEvent `json:"events"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	TotalSize     int32         `json:"total_size"`
}

// AuditEvent is the client view of one journal record.
type AuditEvent struct {
	Seq        uint64         `json:"seq"`
	Timestamp  time.Time      `json:"timestamp"`
	EventName  string         `json:"event_name"`
	Severity   string         `json:"severity"`
	GameID     string         `json:"game_id,omitempty"`
	Method     string         `json:"method"`
	Code       string         `json:"code"`
	TraceID    string         `json:"trace_id,omitempty"`
	SpanID     string         `json:"span_id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}
