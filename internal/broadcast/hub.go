package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type subscriber struct {
	ch        chan *entity.GameEvent
	closeOnce sync.Once
}

func (that *subscriber) close() {
	that.closeOnce.Do(func() { close(that.ch) })
}

// Hub fans game events out to in-process subscribers of a game.
type Hub struct {
	logger *slog.Logger
	buffer int

	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

func NewHub(logger *slog.Logger, buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}

	return &Hub{
		logger:      logger.With("component", "broadcastHub"),
		buffer:      buffer,
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers a subscriber for gameID. The returned channel is closed by
// the unsubscribe func or when the subscriber falls behind.
func (that *Hub) Subscribe(gameID string) (<-chan *entity.GameEvent, func()) {
	sub := &subscriber{ch: make(chan *entity.GameEvent, that.buffer)}

	that.mu.Lock()
	set := that.subscribers[gameID]
	if set == nil {
		set = make(map[*subscriber]struct{})
		that.subscribers[gameID] = set
	}
	set[sub] = struct{}{}
	that.mu.Unlock()

	unsubscribe := func() {
		that.remove(gameID, sub)
	}

	return sub.ch, unsubscribe
}

// Publish delivers event to every subscriber of its game without blocking.
// Subscribers with a full buffer are dropped.
//
// Sends happen under the read lock: a channel is only closed after its
// subscriber has left the map under the write lock.
func (that *Hub) Publish(_ context.Context, event *entity.GameEvent) error {
	var slow []*subscriber

	that.mu.RLock()
	for sub := range that.subscribers[event.GameID] {
		select {
		case sub.ch <- event:
		default:
			slow = append(slow, sub)
		}
	}
	that.mu.RUnlock()

	for _, sub := range slow {
		that.logger.Warn("dropping slow subscriber", "gameID", event.GameID)
		that.remove(event.GameID, sub)
	}

	if event.Action == entity.ActionGameDelete {
		that.closeGame(event.GameID)
	}

	return nil
}

// Subscribers returns the number of live subscribers of gameID.
func (that *Hub) Subscribers(gameID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.subscribers[gameID])
}

func (that *Hub) remove(gameID string, sub *subscriber) {
	that.mu.Lock()
	if set, ok := that.subscribers[gameID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(that.subscribers, gameID)
		}
	}
	that.mu.Unlock()

	sub.close()
}

func (that *Hub) closeGame(gameID string) {
	that.mu.Lock()
	set := that.subscribers[gameID]
	delete(that.subscribers, gameID)
	that.mu.Unlock()

	for sub := range set {
		sub.close()
	}
}
