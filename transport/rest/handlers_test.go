package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/neon-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/internal/repository"
	"github.com/rocketscienceinc/neon-tictactoe/transport/response"
)

type mockUGame struct {
	mock.Mock
}

func (that *mockUGame) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	args := that.Called(ctx, playerID)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockUGame) CreateGame(ctx context.Context, playerID string, mode entity.Mode, difficulty entity.Difficulty) (*entity.Game, error) {
	args := that.Called(ctx, playerID, mode, difficulty)
	return gameArg(args)
}

func (that *mockUGame) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	return gameArg(that.Called(ctx, gameID, playerID))
}

func (that *mockUGame) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	return gameArg(that.Called(ctx, playerID))
}

func (that *mockUGame) LeaveGame(ctx context.Context, playerID string) error {
	return that.Called(ctx, playerID).Error(0)
}

func (that *mockUGame) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	return gameArg(that.Called(ctx, playerID, cell))
}

func (that *mockUGame) NewRound(ctx context.Context, playerID string) (*entity.Game, error) {
	return gameArg(that.Called(ctx, playerID))
}

func gameArg(args mock.Arguments) (*entity.Game, error) {
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func newTestRouter(t *testing.T) (*mockUGame, http.Handler) {
	t.Helper()

	uGame := &mockUGame{}
	t.Cleanup(func() { uGame.AssertExpectations(t) })

	return uGame, NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), uGame)
}

func do(t *testing.T, h http.Handler, method, target, playerID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if playerID != "" {
		req.Header.Set(PlayerHeader, playerID)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func decodeGame(t *testing.T, rr *httptest.ResponseRecorder) response.Game {
	t.Helper()

	var game response.Game
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&game))

	return game
}

func TestPing(t *testing.T) {
	_, h := newTestRouter(t)

	rr := do(t, h, http.MethodGet, "/ping", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestCreatePlayer(t *testing.T) {
	uGame, h := newTestRouter(t)
	uGame.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "new"}, nil).Once()

	rr := do(t, h, http.MethodPost, "/players", "", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"new"}`, rr.Body.String())
}

func TestCreateGame(t *testing.T) {
	t.Run("Computer game", func(t *testing.T) {
		// Given: the use case creates a hard game
		uGame, h := newTestRouter(t)
		game := entity.NewGame("g1", entity.ModePvC, entity.DifficultyHard)
		game.State = entity.StateOTurn
		uGame.On("CreateGame", mock.Anything, "p1", entity.ModePvC, entity.DifficultyHard).Return(game, nil).Once()

		// When: posting the request
		rr := do(t, h, http.MethodPost, "/games", "p1", `{"mode":"pvc","difficulty":"hard"}`)

		// Then: the game view is returned
		require.Equal(t, http.StatusCreated, rr.Code)
		got := decodeGame(t, rr)
		assert.Equal(t, "g1", got.ID)
		assert.Equal(t, entity.PlayerO, got.Turn)
		assert.Equal(t, entity.DifficultyHard, got.Difficulty)
	})

	t.Run("Two player game ignores difficulty", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		game := entity.NewGame("g2", entity.ModePvP, "")
		uGame.On("CreateGame", mock.Anything, "p1", entity.ModePvP, entity.Difficulty("")).Return(game, nil).Once()

		rr := do(t, h, http.MethodPost, "/games", "p1", `{"mode":"pvp","difficulty":"whatever"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, entity.StateWaiting, decodeGame(t, rr).State)
	})

	t.Run("Unknown difficulty is a bad request", func(t *testing.T) {
		_, h := newTestRouter(t)

		rr := do(t, h, http.MethodPost, "/games", "p1", `{"mode":"pvc","difficulty":"impossible"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Broken body", func(t *testing.T) {
		_, h := newTestRouter(t)

		rr := do(t, h, http.MethodPost, "/games", "p1", `{`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMakeTurn(t *testing.T) {
	t.Run("Returns the game after the move", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		game := entity.NewGame("g1", entity.ModePvC, entity.DifficultyEasy)
		game.State = entity.StateOTurn
		game.Board[4] = entity.PlayerO
		game.Board[0] = entity.PlayerX
		uGame.On("MakeTurn", mock.Anything, "p1", 4).Return(game, nil).Once()

		rr := do(t, h, http.MethodPost, "/games/current/turn", "p1", `{"cell":4}`)

		require.Equal(t, http.StatusOK, rr.Code)
		got := decodeGame(t, rr)
		assert.Equal(t, game.Board, got.Board)
		assert.Equal(t, "ongoing", string(got.Outcome))
	})

	t.Run("Cell zero is a valid cell", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		uGame.On("MakeTurn", mock.Anything, "p1", 0).Return(&entity.Game{ID: "g1"}, nil).Once()

		rr := do(t, h, http.MethodPost, "/games/current/turn", "p1", `{"cell":0}`)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Missing cell", func(t *testing.T) {
		_, h := newTestRouter(t)

		rr := do(t, h, http.MethodPost, "/games/current/turn", "p1", `{}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Domain errors map to status codes", func(t *testing.T) {
		tests := []struct {
			err  error
			code int
		}{
			{apperror.ErrNotYourTurn, http.StatusConflict},
			{apperror.ErrCellOccupied, http.StatusConflict},
			{apperror.ErrGameFinished, http.StatusConflict},
			{apperror.ErrInvalidCell, http.StatusBadRequest},
			{apperror.ErrNoActiveGames, http.StatusNotFound},
			{repository.ErrPlayerNotFound, http.StatusNotFound},
			{errors.New("redis down"), http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.err.Error(), func(t *testing.T) {
				uGame, h := newTestRouter(t)
				uGame.On("MakeTurn", mock.Anything, "p1", 3).Return(nil, tt.err).Once()

				rr := do(t, h, http.MethodPost, "/games/current/turn", "p1", `{"cell":3}`)

				assert.Equal(t, tt.code, rr.Code)
			})
		}
	})

	t.Run("Internal errors are not leaked", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		uGame.On("MakeTurn", mock.Anything, "p1", 3).Return(nil, errors.New("dial tcp 10.0.0.1:6379")).Once()

		rr := do(t, h, http.MethodPost, "/games/current/turn", "p1", `{"cell":3}`)

		assert.NotContains(t, rr.Body.String(), "10.0.0.1")
	})
}

func TestGameRoutes(t *testing.T) {
	t.Run("Join", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		uGame.On("JoinGame", mock.Anything, "g1", "p2").Return(&entity.Game{ID: "g1", State: entity.StateOTurn}, nil).Once()

		rr := do(t, h, http.MethodPost, "/games/g1/join", "p2", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "g1", decodeGame(t, rr).ID)
	})

	t.Run("Current", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		uGame.On("GetGame", mock.Anything, "p1").Return(&entity.Game{ID: "g1", State: entity.StateXWon}, nil).Once()

		rr := do(t, h, http.MethodGet, "/games/current", "p1", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, entity.PlayerX, decodeGame(t, rr).Winner)
	})

	t.Run("Round", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		uGame.On("NewRound", mock.Anything, "p1").Return(&entity.Game{ID: "g1", Round: 2}, nil).Once()

		rr := do(t, h, http.MethodPost, "/games/current/round", "p1", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, decodeGame(t, rr).Round)
	})

	t.Run("Leave", func(t *testing.T) {
		uGame, h := newTestRouter(t)
		uGame.On("LeaveGame", mock.Anything, "p1").Return(nil).Once()

		rr := do(t, h, http.MethodDelete, "/games/current", "p1", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
