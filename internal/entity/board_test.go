package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	// When: a new board is created
	board := NewBoard()

	// Then: every cell is empty
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			require.Equal(t, EmptyCell, board.At(x, y))
		}
	}
	assert.Equal(t, 0, board.Count())
	assert.False(t, board.IsFull())
}

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"origin", 0, 0, true},
		{"far corner", BoardSize - 1, BoardSize - 1, true},
		{"center", 7, 7, true},
		{"negative x", -1, 0, false},
		{"negative y", 0, -1, false},
		{"x past edge", BoardSize, 0, false},
		{"y past edge", 0, BoardSize, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCoordinate(tt.x, tt.y))
		})
	}
}

func TestBoard_IsCellEmpty(t *testing.T) {
	t.Run("Empty cell on a valid coordinate", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// Then: valid coordinates are empty
		assert.True(t, board.IsCellEmpty(3, 4))
	})

	t.Run("Occupied cell", func(t *testing.T) {
		// Given: a board with a black stone at (3, 4)
		board, err := NewBoard().PlaceStone(Coordinate{X: 3, Y: 4}, PlayerBlack)
		require.NoError(t, err)

		// Then: the cell is reported as not empty, repeatedly
		assert.False(t, board.IsCellEmpty(3, 4))
		assert.False(t, board.IsCellEmpty(3, 4))
		assert.True(t, board.IsCellEmpty(4, 3))
	})

	t.Run("Invalid coordinate is never empty", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// Then: out of range coordinates yield false instead of an error
		assert.False(t, board.IsCellEmpty(-1, 0))
		assert.False(t, board.IsCellEmpty(0, BoardSize))
	})
}

func TestBoard_PlaceStone(t *testing.T) {
	t.Run("Places a stone and leaves the source board untouched", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: white plays at (2, 5)
		next, err := board.PlaceStone(Coordinate{X: 2, Y: 5}, PlayerWhite)

		// Then: only the target cell changes on the new board
		require.NoError(t, err)
		assert.Equal(t, Cell(PlayerWhite), next.At(2, 5))
		assert.Equal(t, 1, next.Count())

		// Then: the original board is unchanged
		assert.Equal(t, EmptyCell, board.At(2, 5))
		assert.Equal(t, 0, board.Count())
	})

	t.Run("Shares untouched rows", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: a stone is placed on row 5
		next, err := board.PlaceStone(Coordinate{X: 2, Y: 5}, PlayerBlack)
		require.NoError(t, err)

		// Then: every row except row 5 is the same row as before
		for y := 0; y < BoardSize; y++ {
			if y == 5 {
				assert.False(t, next.SharesRow(board, y), "row %d", y)
				continue
			}
			assert.True(t, next.SharesRow(board, y), "row %d", y)
		}
	})

	t.Run("Fails on invalid coordinate", func(t *testing.T) {
		board := NewBoard()

		for _, c := range []Coordinate{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: BoardSize, Y: 3}, {X: 3, Y: BoardSize}} {
			// When: placing outside the board
			_, err := board.PlaceStone(c, PlayerBlack)

			// Then: ErrInvalidCoordinate is returned
			require.ErrorIs(t, err, apperror.ErrInvalidCoordinate)
		}
	})

	t.Run("Fails on occupied cell regardless of player", func(t *testing.T) {
		// Given: a board with black at (7, 7)
		board, err := NewBoard().PlaceStone(Coordinate{X: 7, Y: 7}, PlayerBlack)
		require.NoError(t, err)

		for _, player := range []Player{PlayerBlack, PlayerWhite} {
			// When: any player plays at (7, 7)
			next, err := board.PlaceStone(Coordinate{X: 7, Y: 7}, player)

			// Then: ErrCellOccupied is returned and the cell still holds black
			require.ErrorIs(t, err, apperror.ErrCellOccupied)
			assert.Equal(t, Cell(PlayerBlack), next.At(7, 7))
		}
	})

	t.Run("Fails on unknown player", func(t *testing.T) {
		// When: a stone of an unknown player is placed
		_, err := NewBoard().PlaceStone(Coordinate{X: 1, Y: 1}, Player("red"))

		// Then: ErrInvalidPlayer is returned
		require.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})

	t.Run("Zero value board behaves as empty", func(t *testing.T) {
		// Given: a zero value board
		var board Board

		// When: a stone is placed
		next, err := board.PlaceStone(Coordinate{X: 0, Y: 0}, PlayerBlack)

		// Then: the placement succeeds
		require.NoError(t, err)
		assert.Equal(t, Cell(PlayerBlack), next.At(0, 0))
		assert.True(t, board.IsCellEmpty(0, 0))
	})
}

func TestBoard_IsFull(t *testing.T) {
	// Given: a board filled cell by cell
	board := NewBoard()
	player := PlayerBlack
	var err error
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			board, err = board.PlaceStone(Coordinate{X: x, Y: y}, player)
			require.NoError(t, err)
			player = player.Opponent()
		}
	}

	// Then: the board reports it is full
	assert.True(t, board.IsFull())
	assert.Equal(t, BoardSize*BoardSize, board.Count())
}

func TestBoard_JSON(t *testing.T) {
	// Given: a board with two stones
	board, err := NewBoard().PlaceStone(Coordinate{X: 1, Y: 0}, PlayerBlack)
	require.NoError(t, err)
	board, err = board.PlaceStone(Coordinate{X: 0, Y: 2}, PlayerWhite)
	require.NoError(t, err)

	// When: the board is encoded
	data, err := json.Marshal(board)
	require.NoError(t, err)

	// Then: empty cells are null and stones are player names
	var raw [][]*string
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, BoardSize)
	assert.Nil(t, raw[0][0])
	require.NotNil(t, raw[0][1])
	assert.Equal(t, "black", *raw[0][1])
	require.NotNil(t, raw[2][0])
	assert.Equal(t, "white", *raw[2][0])

	// Then: decoding restores the same grid
	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, board.Cells(), decoded.Cells())
}

func TestBoard_UnmarshalJSON_Invalid(t *testing.T) {
	t.Run("Wrong row count", func(t *testing.T) {
		var board Board
		err := json.Unmarshal([]byte(`[[null]]`), &board)
		require.Error(t, err)
	})

	t.Run("Unknown stone", func(t *testing.T) {
		cells := NewBoard().Cells()
		data, err := json.Marshal(cells)
		require.NoError(t, err)

		// replace the first null with an unknown player
		data = []byte(`[["red"` + string(data[6:]))

		var board Board
		err = json.Unmarshal(data, &board)
		require.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})
}

func TestPlayer_Opponent(t *testing.T) {
	assert.Equal(t, PlayerWhite, PlayerBlack.Opponent())
	assert.Equal(t, PlayerBlack, PlayerWhite.Opponent())
	assert.True(t, PlayerBlack.IsValid())
	assert.False(t, Player("").IsValid())
}

func TestBoard_String(t *testing.T) {
	board, err := NewBoard().PlaceStone(Coordinate{X: 0, Y: 0}, PlayerBlack)
	require.NoError(t, err)
	board, err = board.PlaceStone(Coordinate{X: 1, Y: 0}, PlayerWhite)
	require.NoError(t, err)

	lines := board.String()
	assert.Equal(t, "XO.............\n", lines[:BoardSize+1])
}
