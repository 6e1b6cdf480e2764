package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/redis"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintEvent(t *testing.T) {
	t.Run("Ongoing game", func(t *testing.T) {
		// Given: an event after black's first move
		board, err := entity.NewBoard().PlaceStone(entity.Coordinate{X: 0, Y: 0}, entity.PlayerBlack)
		require.NoError(t, err)
		game := &entity.Game{
			ID:            "g",
			Board:         board,
			CurrentPlayer: entity.PlayerWhite,
			Status:        entity.StatusOngoing,
			History:       []entity.MoveRecord{{Turn: 1, Player: entity.PlayerBlack}},
			HistoryIndex:  0,
		}

		// When: the event is printed
		var out bytes.Buffer
		printEvent(&out, entity.NewGameEvent(entity.ActionStonePlace, game))

		// Then: the board and the side to move are shown
		assert.Contains(t, out.String(), "stone:place")
		assert.Contains(t, out.String(), "X..............\n")
		assert.Contains(t, out.String(), "to move: white (move 1 of 1)")
	})

	t.Run("Won game", func(t *testing.T) {
		game := &entity.Game{ID: "g", Winner: entity.PlayerBlack, Status: entity.StatusWon}

		var out bytes.Buffer
		printEvent(&out, entity.NewGameEvent(entity.ActionStonePlace, game))

		assert.Contains(t, out.String(), "winner: black")
	})
}

func TestRun(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: a config pointing at the test redis
	configPath := filepath.Join(t.TempDir(), "config.yml")
	configYAML := fmt.Sprintf("redis:\n  host: %s\n  port: \"%s\"\n", st.RedisHost, st.RedisPort)
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o600))

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- run(st.Logger, configPath, "g1", &out)
	}()

	publisher := redis.NewPublisher(st.Logger, st.Redis, "")
	st.WaitForSubscribers(ctx, publisher.Channel("g1"))

	// When: a move and then the deletion of the game are published
	board, err := entity.NewBoard().PlaceStone(entity.Coordinate{X: 7, Y: 7}, entity.PlayerBlack)
	require.NoError(t, err)

	game := &entity.Game{ID: "g1", Board: board, CurrentPlayer: entity.PlayerWhite, Status: entity.StatusOngoing}
	require.NoError(t, publisher.Publish(ctx, entity.NewGameEvent(entity.ActionStonePlace, game)))
	require.NoError(t, publisher.Publish(ctx, entity.NewGameEvent(entity.ActionGameDelete, game)))

	// Then: the watcher prints both events and stops
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watcher did not stop after game:delete")
	}

	assert.Contains(t, out.String(), "stone:place")
	assert.Contains(t, out.String(), ".......X.......\n")
	assert.Contains(t, out.String(), "game:delete")
}
