package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gomoku-backend/internal/broadcast"
	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/redis"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
	"github.com/rocketscienceinc/gomoku-backend/transport/rest"
	"github.com/rocketscienceinc/gomoku-backend/transport/websocket"
)

// RunApp serves REST and WebSocket traffic until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	hub := broadcast.NewHub(logger, conf.WebSocket.Buffer)
	publishers := []usecase.EventPublisher{hub}

	if conf.Redis.Enabled {
		redisClient, err := redis.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}

		defer func() {
			if err = redisClient.Close(); err != nil {
				log.Error("could not close redis client", "error", err)
			}
		}()

		publishers = append(publishers, redis.NewPublisher(logger, redisClient, conf.Redis.ChannelPrefix))
		log.Info("Publishing game events to redis", "addr", conf.Redis.GetRedisAddr())
	}

	gameManager := usecase.NewGameManager(logger, publishers...)
	wsServer := websocket.New(logger, gameManager, hub, conf.WebSocket.WriteTimeout)

	router := rest.NewRouter(logger, gameManager)
	router.Get("/games/{id}/ws", wsServer.ServeHTTP)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
