// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Board errors
	CodeBoardInvalidDimension Code = "BOARD_INVALID_DIMENSION"
	CodeBoardCellOutOfBounds  Code = "BOARD_CELL_OUT_OF_BOUNDS"
	CodeBoardInvalidLayout    Code = "BOARD_INVALID_LAYOUT"

	// Game service errors
	CodeGameDimensionTooLarge Code = "GAME_DIMENSION_TOO_LARGE"
	CodeGameIDRequired        Code = "GAME_ID_REQUIRED"

	// Player grant errors
	CodePlayerGrantInvalid  Code = "PLAYER_GRANT_INVALID"
	CodePlayerGrantExpired  Code = "PLAYER_GRANT_EXPIRED"
	CodePlayerGrantMismatch Code = "PLAYER_GRANT_MISMATCH"

	// Listing errors
	CodePageTokenInvalid Code = "PAGE_TOKEN_INVALID"
	CodeFilterInvalid    Code = "FILTER_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeBoardInvalidDimension,
		CodeBoardInvalidLayout,
		CodeGameDimensionTooLarge,
		CodeGameIDRequired,
		CodePageTokenInvalid,
		CodeFilterInvalid:
		return codes.InvalidArgument

	case CodeBoardCellOutOfBounds:
		return codes.OutOfRange

	case CodePlayerGrantInvalid,
		CodePlayerGrantExpired,
		CodePlayerGrantMismatch:
		return codes.PermissionDenied

	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
