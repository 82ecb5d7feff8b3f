package board

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
)

var (
	// ErrInvalidDimension indicates a non-positive board dimension.
	ErrInvalidDimension = apperrors.New(apperrors.CodeBoardInvalidDimension, "board dimension must be at least 1")
	// ErrOutOfBounds indicates a row or column outside [0, dimension).
	ErrOutOfBounds = apperrors.New(apperrors.CodeBoardCellOutOfBounds, "cell is outside the board")
	// ErrInvalidLayout indicates a forced mine layout that cannot be built.
	ErrInvalidLayout = apperrors.New(apperrors.CodeBoardInvalidLayout, "mine layout is invalid")
)

func outOfBounds(p Position, dimension int) error {
	return apperrors.WithMetadata(
		apperrors.CodeBoardCellOutOfBounds,
		fmt.Sprintf("cell (%d, %d) is outside the %dx%d board", p.Row, p.Col, dimension, dimension),
		map[string]string{
			"Row":       strconv.Itoa(p.Row),
			"Col":       strconv.Itoa(p.Col),
			"Dimension": strconv.Itoa(dimension),
		},
	)
}

func invalidLayout(format string, args ...any) error {
	return apperrors.New(apperrors.CodeBoardInvalidLayout, fmt.Sprintf(format, args...))
}
