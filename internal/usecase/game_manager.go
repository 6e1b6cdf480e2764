package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

// EventPublisher receives every game event produced by the manager.
type EventPublisher interface {
	Publish(ctx context.Context, event *entity.GameEvent) error
}

// session serializes transitions of one game.
type session struct {
	mu         sync.Mutex
	controller *gomoku.GameController
}

// GameManager keeps the in-memory games and publishes an event after every transition.
type GameManager struct {
	logger     *slog.Logger
	publishers []EventPublisher

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewGameManager(logger *slog.Logger, publishers ...EventPublisher) *GameManager {
	return &GameManager{
		logger:     logger.With("component", "gameManager"),
		publishers: publishers,
		sessions:   make(map[string]*session),
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	gameID := id.String()
	newSession := &session{controller: gomoku.NewGameController(that.logger.With("gameID", gameID))}

	that.mu.Lock()
	that.sessions[gameID] = newSession
	that.mu.Unlock()

	newSession.mu.Lock()
	defer newSession.mu.Unlock()

	game := newSession.controller.State(gameID)
	that.publish(ctx, entity.ActionGameNew, game)

	that.logger.Info("game created", "gameID", gameID)

	return game, nil
}

func (that *GameManager) GetGame(_ context.Context, id string) (*entity.Game, error) {
	existing, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	existing.mu.Lock()
	defer existing.mu.Unlock()

	return existing.controller.State(id), nil
}

// PlaceStone plays the current player's stone. A rejected move returns the
// unchanged game together with the rejection error.
func (that *GameManager) PlaceStone(ctx context.Context, id string, x, y int) (*entity.Game, error) {
	return that.transition(ctx, id, entity.ActionStonePlace, func(controller *gomoku.GameController) error {
		if err := controller.PlaceStone(x, y); err != nil {
			return fmt.Errorf("failed to place stone: %w", err)
		}
		return nil
	})
}

func (that *GameManager) Undo(ctx context.Context, id string) (*entity.Game, error) {
	return that.transition(ctx, id, entity.ActionGameUndo, func(controller *gomoku.GameController) error {
		if !controller.Undo() {
			return apperror.ErrNothingToUndo
		}
		return nil
	})
}

func (that *GameManager) Redo(ctx context.Context, id string) (*entity.Game, error) {
	return that.transition(ctx, id, entity.ActionGameRedo, func(controller *gomoku.GameController) error {
		if !controller.Redo() {
			return apperror.ErrNothingToRedo
		}
		return nil
	})
}

func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	return that.transition(ctx, id, entity.ActionGameReset, func(controller *gomoku.GameController) error {
		controller.Reset()
		return nil
	})
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	that.mu.Lock()
	existing, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	existing.mu.Lock()
	defer existing.mu.Unlock()

	that.publish(ctx, entity.ActionGameDelete, existing.controller.State(id))

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

// transition runs apply under the session lock and publishes action when it succeeds.
func (that *GameManager) transition(
	ctx context.Context, id, action string, apply func(controller *gomoku.GameController) error,
) (*entity.Game, error) {
	existing, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	existing.mu.Lock()
	defer existing.mu.Unlock()

	applyErr := apply(existing.controller)
	game := existing.controller.State(id)

	if applyErr != nil {
		return game, applyErr
	}

	that.publish(ctx, action, game)

	return game, nil
}

func (that *GameManager) getSession(id string) (*session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existing, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return existing, nil
}

func (that *GameManager) publish(ctx context.Context, action string, game *entity.Game) {
	log := that.logger.With("method", "publish", "action", action, "gameID", game.ID)

	event := entity.NewGameEvent(action, game)
	for _, publisher := range that.publishers {
		if err := publisher.Publish(ctx, event); err != nil {
			log.Error("failed to publish game event", "error", err)
		}
	}
}
