package websocket

import (
	"context"
	"errors"
	"fmt"
)

var (
	errUnknownAction      = errors.New("unknown action")
	errInvalidPayload     = errors.New("invalid payload")
	errMissingCoordinates = errors.New("x and y are required")
)

func (that *Server) handlePlaceStone(ctx context.Context, gameID string, payload *Payload) error {
	if payload.X == nil || payload.Y == nil {
		return errMissingCoordinates
	}

	if _, err := that.uGame.PlaceStone(ctx, gameID, *payload.X, *payload.Y); err != nil {
		return fmt.Errorf("failed to place stone: %w", err)
	}

	return nil
}

func (that *Server) handleUndo(ctx context.Context, gameID string, _ *Payload) error {
	if _, err := that.uGame.Undo(ctx, gameID); err != nil {
		return fmt.Errorf("failed to undo: %w", err)
	}

	return nil
}

func (that *Server) handleRedo(ctx context.Context, gameID string, _ *Payload) error {
	if _, err := that.uGame.Redo(ctx, gameID); err != nil {
		return fmt.Errorf("failed to redo: %w", err)
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, gameID string, _ *Payload) error {
	if _, err := that.uGame.ResetGame(ctx, gameID); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return nil
}
