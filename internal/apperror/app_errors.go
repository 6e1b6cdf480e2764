package apperror

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidPlayer     = errors.New("invalid player")
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameNotFound      = errors.New("game not found")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
)
