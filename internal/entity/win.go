package entity

// directions holds one vector per axis: horizontal, vertical, diagonal down, diagonal up.
var directions = [4]Coordinate{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
	{X: 1, Y: -1},
}

// CheckWin reports whether the stone at lastMove completes a run of at least
// WinLength stones of player along any axis. Overlines count as a win.
func CheckWin(board Board, lastMove Coordinate, player Player) bool {
	for _, dir := range directions {
		positive := countConsecutive(board, lastMove, dir.X, dir.Y, player)
		negative := countConsecutive(board, lastMove, -dir.X, -dir.Y, player)

		if positive+negative+1 >= WinLength {
			return true
		}
	}

	return false
}

// countConsecutive counts player's stones after start in direction (dx, dy),
// stopping at the edge of the board or the first non-matching cell.
func countConsecutive(board Board, start Coordinate, dx, dy int, player Player) int {
	count := 0
	for x, y := start.X+dx, start.Y+dy; IsValidCoordinate(x, y); x, y = x+dx, y+dy {
		if board.At(x, y) != Cell(player) {
			break
		}
		count++
	}

	return count
}
