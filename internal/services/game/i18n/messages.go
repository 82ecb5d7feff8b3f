package i18n

const (
	// StatusPlayingKey labels a game still in progress.
	StatusPlayingKey = "game.status.playing"
	// StatusWonKey labels a won game.
	StatusWonKey = "game.status.won"
	// StatusLostKey labels a lost game.
	StatusLostKey = "game.status.lost"
	// MinesLeftKey formats the remaining flag budget.
	MinesLeftKey = "game.mines_left"
)
