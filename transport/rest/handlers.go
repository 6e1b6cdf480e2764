package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var errMissingCoordinate = errors.New("x and y are required")

type handlers struct {
	logger *slog.Logger
	uGame  uGame
}

type placeStoneRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.Game `json:"game,omitempty"`
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) placeStone(w http.ResponseWriter, r *http.Request) {
	var req placeStoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.X == nil || req.Y == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingCoordinate.Error()})
		return
	}

	game, err := that.uGame.PlaceStone(r.Context(), chi.URLParam(r, "id"), *req.X, *req.Y)
	if err != nil {
		that.writeError(w, r, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) undo(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.Undo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) redo(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.Redo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) reset(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.ResetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error, game *entity.Game) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error(), Game: game})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

// StatusFromError maps game errors to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNothingToUndo),
		errors.Is(err, apperror.ErrNothingToRedo):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
