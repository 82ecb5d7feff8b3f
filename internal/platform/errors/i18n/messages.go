package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeBoardInvalidDimension = "BOARD_INVALID_DIMENSION"
	CodeBoardCellOutOfBounds  = "BOARD_CELL_OUT_OF_BOUNDS"
	CodeBoardInvalidLayout    = "BOARD_INVALID_LAYOUT"
	CodeGameDimensionTooLarge = "GAME_DIMENSION_TOO_LARGE"
	CodeGameIDRequired        = "GAME_ID_REQUIRED"
	CodePlayerGrantInvalid    = "PLAYER_GRANT_INVALID"
	CodePlayerGrantExpired    = "PLAYER_GRANT_EXPIRED"
	CodePlayerGrantMismatch   = "PLAYER_GRANT_MISMATCH"
	CodePageTokenInvalid      = "PAGE_TOKEN_INVALID"
	CodeFilterInvalid         = "FILTER_INVALID"
	CodeNotFound              = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeBoardInvalidDimension: "Board dimension must be at least 1.",
	CodeBoardCellOutOfBounds:  "Cell ({{.Row}}, {{.Col}}) is outside the {{.Dimension}}x{{.Dimension}} board.",
	CodeBoardInvalidLayout:    "The mine layout is invalid.",
	CodeGameDimensionTooLarge: "Board dimension {{.Dimension}} exceeds the maximum of {{.Max}}.",
	CodeGameIDRequired:        "A game id is required.",
	CodePlayerGrantInvalid:    "The player grant is invalid.",
	CodePlayerGrantExpired:    "The player grant has expired.",
	CodePlayerGrantMismatch:   "The player grant belongs to a different game.",
	CodePageTokenInvalid:      "The page token is invalid.",
	CodeFilterInvalid:         "The filter expression is invalid.",
	CodeNotFound:              "The requested {{.Resource}} was not found.",
}

var ptBRMessages = map[Code]string{
	CodeBoardInvalidDimension: "A dimensão do tabuleiro deve ser pelo menos 1.",
	CodeBoardCellOutOfBounds:  "A célula ({{.Row}}, {{.Col}}) está fora do tabuleiro {{.Dimension}}x{{.Dimension}}.",
	CodeBoardInvalidLayout:    "A disposição das minas é inválida.",
	CodeGameDimensionTooLarge: "A dimensão {{.Dimension}} excede o máximo de {{.Max}}.",
	CodeGameIDRequired:        "O id do jogo é obrigatório.",
	CodePlayerGrantInvalid:    "A credencial do jogador é inválida.",
	CodePlayerGrantExpired:    "A credencial do jogador expirou.",
	CodePlayerGrantMismatch:   "A credencial do jogador pertence a outro jogo.",
	CodePageTokenInvalid:      "O token de página é inválido.",
	CodeFilterInvalid:         "A expressão de filtro é inválida.",
	CodeNotFound:              "O recurso {{.Resource}} não foi encontrado.",
}
