package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const DefaultChannelPrefix = "gomoku:game"

// Publisher publishes game events as JSON on a per-game Redis channel.
type Publisher struct {
	logger *slog.Logger
	client *redis.Client
	prefix string
}

func NewPublisher(logger *slog.Logger, client *redis.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}

	return &Publisher{
		logger: logger.With("component", "redisPublisher"),
		client: client,
		prefix: prefix,
	}
}

// Channel returns the channel events of gameID are published on.
func (that *Publisher) Channel(gameID string) string {
	return that.prefix + ":" + gameID
}

func (that *Publisher) Publish(ctx context.Context, event *entity.GameEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal game event: %w", err)
	}

	if err = that.client.Publish(ctx, that.Channel(event.GameID), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish game event: %w", err)
	}

	return nil
}

// Subscribe listens for events of gameID until ctx is done.
func (that *Publisher) Subscribe(ctx context.Context, gameID string) (<-chan *entity.GameEvent, error) {
	pubsub := that.client.Subscribe(ctx, that.Channel(gameID))

	// wait for the subscription confirmation so no event published afterwards is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to game events: %w", err)
	}

	log := that.logger.With("method", "Subscribe", "gameID", gameID)

	events := make(chan *entity.GameEvent)
	go func() {
		defer close(events)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}

				var event entity.GameEvent
				if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
					log.Warn("skipping undecodable game event", "channel", message.Channel, "error", err)
					continue
				}

				select {
				case events <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
