// Package events defines canonical game audit event names.
package events

const (
	// GameCreate records a CreateGame call.
	GameCreate = "game.create"
	// GameRead records read-only calls (GetGame, ListGames, ListEvents).
	GameRead = "game.read"
	// GameOpen records an OpenCell call.
	GameOpen = "game.open"
	// GameFlag records a ToggleFlag call.
	GameFlag = "game.flag"
	// GameReveal records a ForceReveal call.
	GameReveal = "game.reveal"
)
