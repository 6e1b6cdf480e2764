package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	BoardSize = 15
	WinLength = 5
)

const (
	PlayerBlack Player = "black"
	PlayerWhite Player = "white"

	// FirstPlayer moves first in every game.
	FirstPlayer = PlayerBlack

	EmptyCell Cell = ""
)

// Player is one of the two sides of a game.
type Player string

func (that Player) IsValid() bool {
	return that == PlayerBlack || that == PlayerWhite
}

func (that Player) Opponent() Player {
	if that == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

// Cell holds either EmptyCell or the player whose stone occupies it.
type Cell string

func (that Cell) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return []byte("null"), nil
	}
	return json.Marshal(string(that))
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = EmptyCell
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to unmarshal cell: %w", err)
	}

	if !Player(value).IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, value)
	}

	*that = Cell(value)
	return nil
}

// Coordinate addresses a cell: X is the column, Y is the row.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Coordinate) IsValid() bool {
	return IsValidCoordinate(that.X, that.Y)
}

type row [BoardSize]Cell

// Board is an immutable snapshot of the grid. PlaceStone copies only the row it
// touches, every other row is shared with the source board.
// The zero value is an empty board.
type Board struct {
	rows [BoardSize]*row
}

func NewBoard() Board {
	var board Board
	for y := range board.rows {
		board.rows[y] = &row{}
	}

	return board
}

func IsValidCoordinate(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// At returns the cell at (x, y); out of range coordinates read as empty.
func (that Board) At(x, y int) Cell {
	if !IsValidCoordinate(x, y) || that.rows[y] == nil {
		return EmptyCell
	}

	return that.rows[y][x]
}

// IsCellEmpty reports whether (x, y) is on the board and holds no stone.
func (that Board) IsCellEmpty(x, y int) bool {
	return IsValidCoordinate(x, y) && that.At(x, y) == EmptyCell
}

// PlaceStone returns a new board with player's stone at coordinate.
func (that Board) PlaceStone(coordinate Coordinate, player Player) (Board, error) {
	x, y := coordinate.X, coordinate.Y

	if !IsValidCoordinate(x, y) {
		return that, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCoordinate, x, y)
	}

	if !player.IsValid() {
		return that, fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, player)
	}

	if !that.IsCellEmpty(x, y) {
		return that, fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, x, y)
	}

	updated := &row{}
	if that.rows[y] != nil {
		*updated = *that.rows[y]
	}
	updated[x] = Cell(player)

	next := that
	next.rows[y] = updated

	return next, nil
}

// SharesRow reports whether row y of both boards is the same underlying row.
func (that Board) SharesRow(other Board, y int) bool {
	if y < 0 || y >= BoardSize {
		return false
	}

	return that.rows[y] != nil && that.rows[y] == other.rows[y]
}

func (that Board) IsFull() bool {
	return that.Count() == BoardSize*BoardSize
}

// Count returns the number of stones on the board.
func (that Board) Count() int {
	stones := 0
	for y := range that.rows {
		for x := 0; x < BoardSize; x++ {
			if that.At(x, y) != EmptyCell {
				stones++
			}
		}
	}

	return stones
}

// Cells returns a copy of the grid indexed as [y][x].
func (that Board) Cells() [][]Cell {
	cells := make([][]Cell, BoardSize)
	for y := range cells {
		cells[y] = make([]Cell, BoardSize)
		for x := range cells[y] {
			cells[y][x] = that.At(x, y)
		}
	}

	return cells
}

func (that Board) String() string {
	var sb strings.Builder
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			switch that.At(x, y) {
			case Cell(PlayerBlack):
				sb.WriteByte('X')
			case Cell(PlayerWhite):
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Cells())
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells [][]Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("board must have %d rows, got %d", BoardSize, len(cells))
	}

	board := NewBoard()
	for y, cellsRow := range cells {
		if len(cellsRow) != BoardSize {
			return fmt.Errorf("row %d must have %d cells, got %d", y, BoardSize, len(cellsRow))
		}
		copy(board.rows[y][:], cellsRow)
	}

	*that = board
	return nil
}
