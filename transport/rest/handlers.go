package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/transport/response"
)

// PlayerHeader carries the caller's player id.
const PlayerHeader = "X-Player-ID"

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	CreateGame(ctx context.Context, playerID string, mode entity.Mode, difficulty entity.Difficulty) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) error

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	NewRound(ctx context.Context, playerID string) (*entity.Game, error)
}

type createGameRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type handlers struct {
	logger *slog.Logger
	uGame  uGame
}

func newHandlers(logger *slog.Logger, uGame uGame) *handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *handlers) createPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := that.uGame.GetOrCreatePlayer(r.Context(), r.Header.Get(PlayerHeader))
	if err != nil {
		that.writeError(w, "createPlayer", err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, response.Error{Error: "invalid request body"})
		return
	}

	mode, err := entity.ParseMode(req.Mode)
	if err != nil {
		that.writeError(w, "createGame", err)
		return
	}

	var difficulty entity.Difficulty
	if mode == entity.ModePvC {
		if difficulty, err = entity.ParseDifficulty(req.Difficulty); err != nil {
			that.writeError(w, "createGame", err)
			return
		}
	}

	game, err := that.uGame.CreateGame(r.Context(), r.Header.Get(PlayerHeader), mode, difficulty)
	if err != nil {
		that.writeError(w, "createGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, response.NewGame(game))
}

func (that *handlers) joinGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.JoinGame(r.Context(), chi.URLParam(r, "id"), r.Header.Get(PlayerHeader))
	if err != nil {
		that.writeError(w, "joinGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, response.NewGame(game))
}

func (that *handlers) currentGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), r.Header.Get(PlayerHeader))
	if err != nil {
		that.writeError(w, "currentGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, response.NewGame(game))
}

func (that *handlers) leaveGame(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.LeaveGame(r.Context(), r.Header.Get(PlayerHeader)); err != nil {
		that.writeError(w, "leaveGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, response.Error{Error: "cell is required"})
		return
	}

	game, err := that.uGame.MakeTurn(r.Context(), r.Header.Get(PlayerHeader), *req.Cell)
	if err != nil {
		that.writeError(w, "makeTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, response.NewGame(game))
}

func (that *handlers) newRound(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.NewRound(r.Context(), r.Header.Get(PlayerHeader))
	if err != nil {
		that.writeError(w, "newRound", err)
		return
	}

	that.writeJSON(w, http.StatusOK, response.NewGame(game))
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	status := response.StatusCode(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	that.writeJSON(w, status, response.Error{Error: response.Message(err)})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
