package gomoku

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// GameController owns one hot-seat game: the board, whose turn it is, the winner
// and a branchable move history with a cursor.
//
// The board and current player always match a replay of history[:historyIndex+1]
// from an empty board. GameController is not safe for concurrent use.
type GameController struct {
	logger *slog.Logger

	board         entity.Board
	currentPlayer entity.Player
	winner        entity.Player
	history       []entity.MoveRecord
	historyIndex  int
}

func NewGameController(logger *slog.Logger) *GameController {
	controller := &GameController{
		logger: logger.With("component", "gameController"),
	}
	controller.Reset()

	return controller
}

// Reset starts a new game in place and discards the whole history.
func (that *GameController) Reset() {
	that.board = entity.NewBoard()
	that.currentPlayer = entity.FirstPlayer
	that.winner = ""
	that.history = nil
	that.historyIndex = -1
}

// PlaceStone plays the current player's stone at (x, y).
//
// A rejected move leaves the state untouched and returns apperror.ErrGameFinished,
// apperror.ErrInvalidCoordinate or apperror.ErrCellOccupied.
func (that *GameController) PlaceStone(x, y int) error {
	log := that.logger.With("method", "PlaceStone", "x", x, "y", y, "player", that.currentPlayer)

	if that.winner != "" {
		log.Warn("move rejected, game is already won", "winner", that.winner)
		return apperror.ErrGameFinished
	}

	coordinate := entity.Coordinate{X: x, Y: y}

	board, err := that.board.PlaceStone(coordinate, that.currentPlayer)
	if err != nil {
		log.Warn("move rejected", "error", err)
		return fmt.Errorf("invalid move: %w", err)
	}

	// a new move after undo overwrites the undone future
	history := slices.Clip(that.history[:that.historyIndex+1])
	move := entity.MoveRecord{
		Turn:       len(history) + 1,
		Player:     that.currentPlayer,
		Coordinate: coordinate,
	}

	that.board = board
	that.history = append(history, move)
	that.historyIndex = len(that.history) - 1
	that.settle(move)

	return nil
}

// Undo steps the cursor back one move and rebuilds the board by replay.
// It reports false when there is nothing to undo.
func (that *GameController) Undo() bool {
	if that.historyIndex < 0 {
		return false
	}

	that.historyIndex--
	that.board = replay(that.history[:that.historyIndex+1])

	if that.historyIndex == -1 {
		that.currentPlayer = entity.FirstPlayer
	} else {
		that.currentPlayer = that.history[that.historyIndex].Player.Opponent()
	}
	that.winner = ""

	return true
}

// Redo replays the next recorded move on top of the current board.
// It reports false when the cursor is already at the newest move.
func (that *GameController) Redo() bool {
	if that.historyIndex >= len(that.history)-1 {
		return false
	}

	move := that.history[that.historyIndex+1]

	board, err := that.board.PlaceStone(move.Coordinate, move.Player)
	if err != nil {
		// history is consistent by construction
		that.logger.Error("failed to redo move", "method", "Redo", "turn", move.Turn, "error", err)
		return false
	}

	that.board = board
	that.historyIndex++
	that.settle(move)

	return true
}

// settle updates winner and turn after move was applied to the board.
func (that *GameController) settle(move entity.MoveRecord) {
	if entity.CheckWin(that.board, move.Coordinate, move.Player) {
		that.winner = move.Player
		that.currentPlayer = move.Player

		that.logger.Info("game won", "winner", move.Player, "turn", move.Turn)
		return
	}

	that.winner = ""
	that.currentPlayer = move.Player.Opponent()
}

func (that *GameController) Board() entity.Board {
	return that.board
}

func (that *GameController) CurrentPlayer() entity.Player {
	return that.currentPlayer
}

// Winner returns the winning player, or an empty Player while the game is ongoing.
func (that *GameController) Winner() entity.Player {
	return that.winner
}

func (that *GameController) HistoryIndex() int {
	return that.historyIndex
}

// History returns the full move log, including undone moves. The slice must not be modified.
func (that *GameController) History() []entity.MoveRecord {
	return slices.Clip(that.history)
}

func (that *GameController) CanUndo() bool {
	return that.historyIndex >= 0
}

func (that *GameController) CanRedo() bool {
	return that.historyIndex < len(that.history)-1
}

// State returns an immutable snapshot of the session.
func (that *GameController) State(id string) *entity.Game {
	game := &entity.Game{
		ID:            id,
		Board:         that.board,
		CurrentPlayer: that.currentPlayer,
		Winner:        that.winner,
		Status:        that.status(),
		History:       slices.Clone(that.history),
		HistoryIndex:  that.historyIndex,
		CanUndo:       that.CanUndo(),
		CanRedo:       that.CanRedo(),
	}

	if game.History == nil {
		game.History = []entity.MoveRecord{}
	}

	if that.historyIndex >= 0 {
		last := that.history[that.historyIndex].Coordinate
		game.LastMove = &last
	}

	return game
}

func (that *GameController) status() string {
	switch {
	case that.winner != "":
		return entity.StatusWon
	case that.board.IsFull():
		return entity.StatusDraw
	default:
		return entity.StatusOngoing
	}
}

// replay rebuilds a board from an empty one by applying moves in order.
func replay(moves []entity.MoveRecord) entity.Board {
	board := entity.NewBoard()
	for _, move := range moves {
		next, err := board.PlaceStone(move.Coordinate, move.Player)
		if err != nil {
			continue
		}
		board = next
	}

	return board
}

// IsRejectedMove reports whether err is one of the recoverable move rejections.
func IsRejectedMove(err error) bool {
	return errors.Is(err, apperror.ErrInvalidCoordinate) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrGameFinished)
}
