package response

import (
	"errors"
	"net/http"

	"github.com/rocketscienceinc/neon-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/internal/repository"
	"github.com/rocketscienceinc/neon-tictactoe/internal/tictactoe"
)

// Game is the client view of a game.
type Game struct {
	ID         string            `json:"id"`
	Board      entity.Board      `json:"board"`
	State      entity.State      `json:"state"`
	Outcome    tictactoe.Outcome `json:"outcome"`
	Turn       entity.Mark       `json:"turn"`
	Winner     entity.Mark       `json:"winner"`
	Mode       entity.Mode       `json:"mode"`
	Difficulty entity.Difficulty `json:"difficulty,omitempty"`
	Scores     entity.Scores     `json:"scores"`
	Round      int               `json:"round"`
	Players    []*entity.Player  `json:"players,omitempty"`
}

func NewGame(game *entity.Game) *Game {
	if game == nil {
		return nil
	}

	return &Game{
		ID:         game.ID,
		Board:      game.Board,
		State:      game.State,
		Outcome:    tictactoe.IsTerminal(game.Board),
		Turn:       game.Turn(),
		Winner:     game.Winner(),
		Mode:       game.Mode,
		Difficulty: game.Difficulty,
		Scores:     game.Scores,
		Round:      game.Round,
		Players:    game.Players,
	}
}

type Error struct {
	Error string `json:"error"`
}

// StatusCode maps domain errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, repository.ErrPlayerNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, apperror.ErrNoActiveGames):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidMode),
		errors.Is(err, apperror.ErrInvalidDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrGameIsFull),
		errors.Is(err, apperror.ErrGameAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message hides internal error details from clients.
func Message(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return http.StatusText(http.StatusInternalServerError)
	}

	return err.Error()
}
