package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

type uGame interface {
	GetGame(ctx context.Context, id string) (*entity.Game, error)

	PlaceStone(ctx context.Context, id string, x, y int) (*entity.Game, error)
	Undo(ctx context.Context, id string) (*entity.Game, error)
	Redo(ctx context.Context, id string) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
}

type eventSource interface {
	Subscribe(gameID string) (<-chan *entity.GameEvent, func())
}

type handlerFunc func(ctx context.Context, gameID string, payload *Payload) error

// Server streams game events to WebSocket clients and accepts game commands from them.
type Server struct {
	logger       *slog.Logger
	uGame        uGame
	events       eventSource
	writeTimeout time.Duration

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, events eventSource, writeTimeout time.Duration) *Server {
	server := &Server{
		logger:       logger.With("component", "websocket"),
		uGame:        uGame,
		events:       events,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[entity.ActionStonePlace] = server.handlePlaceStone
	server.handlers[entity.ActionGameUndo] = server.handleUndo
	server.handlers[entity.ActionGameRedo] = server.handleRedo
	server.handlers[entity.ActionGameReset] = server.handleReset

	return server
}

// ServeHTTP upgrades a request for /games/{id}/ws.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	log := that.logger.With("method", "ServeHTTP", "gameID", gameID)

	// subscribe before reading the state so no transition falls in between
	events, unsubscribe := that.events.Subscribe(gameID)
	defer unsubscribe()

	game, err := that.uGame.GetGame(r.Context(), gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to get game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established")

	// the initial state goes out before any queued event
	if err = that.writeState(conn, game); err != nil {
		log.Error("failed to write initial state", "error", err)
		return
	}

	replies := make(chan *Message, 1)
	done := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		that.writeLoop(conn, events, replies, done)
	}()

	that.readLoop(r.Context(), conn, gameID, replies, writerDone)

	close(done)
	<-writerDone

	log.Info("WebSocket connection closed")
}

// readLoop dispatches client messages until the connection fails or the writer stops.
func (that *Server) readLoop(
	ctx context.Context, conn *websocket.Conn, gameID string, replies chan<- *Message, writerDone <-chan struct{},
) {
	log := that.logger.With("method", "readLoop", "gameID", gameID)

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("stopped reading messages", "error", err)
			}
			return
		}

		err := that.dispatch(ctx, gameID, &message)
		if err == nil {
			continue
		}

		if !gomoku.IsRejectedMove(err) {
			log.Warn("command failed", "action", message.Action, "error", err)
		}

		reply, marshalErr := newMessage(message.Action, Payload{Error: err.Error()})
		if marshalErr != nil {
			log.Error("failed to marshal reply", "error", marshalErr)
			continue
		}

		select {
		case replies <- reply:
		case <-writerDone:
			return
		}
	}
}

func (that *Server) dispatch(ctx context.Context, gameID string, message *Message) error {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return errUnknownAction
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return errInvalidPayload
		}
	}

	return handler(ctx, gameID, &payload)
}

func (that *Server) writeState(conn *websocket.Conn, game *entity.Game) error {
	message, err := newMessage(actionGameState, Payload{Game: game})
	if err != nil {
		return err
	}

	if err = conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}

	return nil
}

// writeLoop is the only goroutine writing to conn once the initial state is sent.
func (that *Server) writeLoop(
	conn *websocket.Conn, events <-chan *entity.GameEvent, replies <-chan *Message, done <-chan struct{},
) {
	log := that.logger.With("method", "writeLoop")

	for {
		var message *Message

		select {
		case <-done:
			return
		case reply := <-replies:
			message = reply
		case event, ok := <-events:
			if !ok {
				// unsubscribed by the hub: game deleted or client too slow
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game closed"),
					time.Now().Add(that.writeTimeout))
				_ = conn.Close()
				return
			}

			var err error
			message, err = newMessage(event.Action, Payload{Game: event.Game})
			if err != nil {
				log.Error("failed to marshal event", "error", err)
				continue
			}
		}

		if err := conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			log.Error("failed to set write deadline", "error", err)
			return
		}

		if err := conn.WriteJSON(message); err != nil {
			log.Error("failed to write message", "error", err)
			_ = conn.Close()
			return
		}
	}
}
