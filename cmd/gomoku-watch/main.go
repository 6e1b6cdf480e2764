// Command gomoku-watch prints every event of one game published to Redis.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/redis"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the config file")
	gameID := flag.String("game", "", "id of the game to watch")
	flag.Parse()

	if *gameID == "" {
		fmt.Fprintln(os.Stderr, "-game is required")
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := run(logger, *configPath, *gameID, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gomoku-watch: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, gameID string, out io.Writer) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := redis.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return err
	}
	defer client.Close()

	events, err := redis.NewPublisher(logger, client, conf.Redis.ChannelPrefix).Subscribe(ctx, gameID)
	if err != nil {
		return err
	}

	for event := range events {
		printEvent(out, event)

		if event.Action == entity.ActionGameDelete {
			return nil
		}
	}

	return nil
}

func printEvent(out io.Writer, event *entity.GameEvent) {
	fmt.Fprintf(out, "%s %s\n", event.Time.Format("15:04:05"), event.Action)

	game := event.Game
	if game == nil {
		return
	}

	fmt.Fprint(out, game.Board.String())

	switch {
	case game.IsWon():
		fmt.Fprintf(out, "winner: %s\n", game.Winner)
	case game.IsDraw():
		fmt.Fprintln(out, "draw")
	default:
		fmt.Fprintf(out, "to move: %s (move %d of %d)\n", game.CurrentPlayer, game.HistoryIndex+1, len(game.History))
	}
}
