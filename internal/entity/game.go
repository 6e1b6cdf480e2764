package entity

import "time"

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

const (
	ActionGameNew    = "game:new"
	ActionStonePlace = "stone:place"
	ActionGameUndo   = "game:undo"
	ActionGameRedo   = "game:redo"
	ActionGameReset  = "game:reset"
	ActionGameDelete = "game:delete"
)

// MoveRecord is one ply of the game log.
type MoveRecord struct {
	Turn       int        `json:"turn"`
	Player     Player     `json:"player"`
	Coordinate Coordinate `json:"coordinate"`
}

// Game is a read-only snapshot of a session, safe to share between goroutines.
type Game struct {
	ID            string       `json:"id"`
	Board         Board        `json:"board"`
	CurrentPlayer Player       `json:"current_player"`
	Winner        Player       `json:"winner,omitempty"`
	Status        string       `json:"status"`
	History       []MoveRecord `json:"history"`
	HistoryIndex  int          `json:"history_index"`
	LastMove      *Coordinate  `json:"last_move,omitempty"`
	CanUndo       bool         `json:"can_undo"`
	CanRedo       bool         `json:"can_redo"`
}

func (that *Game) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Game) IsDraw() bool {
	return that.Status == StatusDraw
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// GameEvent is emitted after every state transition of a game.
type GameEvent struct {
	Action string    `json:"action"`
	GameID string    `json:"game_id"`
	Game   *Game     `json:"game,omitempty"`
	Time   time.Time `json:"time"`
}

func NewGameEvent(action string, game *Game) *GameEvent {
	return &GameEvent{
		Action: action,
		GameID: game.ID,
		Game:   game,
		Time:   time.Now().UTC(),
	}
}
