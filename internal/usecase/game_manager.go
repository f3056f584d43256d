package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/neon-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/internal/pkg"
	"github.com/rocketscienceinc/neon-tictactoe/internal/repository"
	"github.com/rocketscienceinc/neon-tictactoe/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
}

// GameManager owns the turn loop: it applies human moves, lets the bot
// answer in computer games and persists the result.
type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	botService botService

	// per game locks, so two seats cannot interleave read-modify-write
	locks sync.Map
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, botService botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		botService: botService,
	}
}

// GetOrCreatePlayer - returns the player, registering it on first sight.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID != "" {
		player, err := that.playerRepo.GetByID(ctx, playerID)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed get player by id: %w", err)
		}
	} else {
		playerID = pkg.GenerateNewSessionID()
	}

	player := &entity.Player{ID: playerID}
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed create player: %w", err)
	}

	that.logger.Info("registered new player", "playerID", player.ID)

	return player, nil
}

// CreateGame - opens a new game with the player on O. A game the player was
// still seated in is closed first.
func (that *GameManager) CreateGame(ctx context.Context, playerID string, mode entity.Mode, difficulty entity.Difficulty) (*entity.Game, error) {
	if _, err := entity.ParseMode(string(mode)); err != nil {
		return nil, err
	}

	if mode == entity.ModePvC {
		if _, err := entity.ParseDifficulty(string(difficulty)); err != nil {
			return nil, err
		}
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID != "" {
		if err = that.LeaveGame(ctx, playerID); err != nil && !errors.Is(err, apperror.ErrNoActiveGames) {
			return nil, fmt.Errorf("failed leave previous game: %w", err)
		}
		player.GameID = ""
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	game := entity.NewGame(gameID, mode, difficulty)

	player.GameID = gameID
	player.Mark = entity.PlayerO
	game.Players = []*entity.Player{player}

	if game.IsWithBot() {
		game.Players = append(game.Players, entity.NewBotPlayer(gameID, tictactoe.ComputerMark))
		if err = tictactoe.Start(game); err != nil {
			return nil, fmt.Errorf("failed start game: %w", err)
		}
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "mode", game.Mode, "difficulty", game.Difficulty)

	return game, nil
}

// JoinGame - seats the player on X of a waiting two player game. A game the
// player was still seated in is closed first.
func (that *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	// the previous game is left before the new one is locked
	if player.GameID != "" && player.GameID != gameID {
		if err = that.confirmJoinable(ctx, gameID); err != nil {
			return nil, err
		}

		if err = that.LeaveGame(ctx, playerID); err != nil && !errors.Is(err, apperror.ErrNoActiveGames) {
			return nil, fmt.Errorf("failed leave previous game: %w", err)
		}
	}

	unlock := that.lock(gameID)
	defer unlock()

	existingGame, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game by id: %w", err)
	}

	player, err = that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == existingGame.ID {
		return existingGame, nil
	}

	if err = joinable(existingGame); err != nil {
		return nil, err
	}

	player.GameID = existingGame.ID
	player.Mark = entity.PlayerX
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player: %w", err)
	}

	existingGame.Players = append(existingGame.Players, player)
	if err = tictactoe.Start(existingGame); err != nil {
		return nil, fmt.Errorf("failed start game: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, existingGame); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	return existingGame, nil
}

// MakeTurn - applies the player's move; in a computer game the bot answers
// before the state is saved.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	unlock := that.lock(player.GameID)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game by id: %w", err)
	}

	if err = tictactoe.MakeTurn(game, player.Mark, cell); err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	if game.IsWithBot() && game.IsOngoing() {
		if err = that.botService.MakeTurn(ctx, game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	if game.IsFinished() {
		that.logger.Info("round finished", "gameID", game.ID, "state", game.State, "scores", game.Scores)
	}

	return game, nil
}

// NewRound - clears the board and keeps the scores.
func (that *GameManager) NewRound(ctx context.Context, playerID string) (*entity.Game, error) {
	game, unlock, err := that.lockedGameOf(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err = tictactoe.NewRound(game); err != nil {
		return nil, fmt.Errorf("failed start new round: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	return game, nil
}

// GetGame - returns the game the player is seated in.
func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, unlock, err := that.lockedGameOf(ctx, playerID)
	if err != nil {
		return nil, err
	}
	unlock()

	return game, nil
}

// LeaveGame - deletes the player's game and frees every seat in it.
func (that *GameManager) LeaveGame(ctx context.Context, playerID string) error {
	game, unlock, err := that.lockedGameOf(ctx, playerID)
	if err != nil {
		return err
	}
	defer unlock()

	that.cleanupGame(ctx, game)

	return nil
}

func (that *GameManager) confirmJoinable(ctx context.Context, gameID string) error {
	unlock := that.lock(gameID)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed get game by id: %w", err)
	}

	return joinable(game)
}

func joinable(game *entity.Game) error {
	if game.IsWithBot() || len(game.Players) >= 2 {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameIsFull, game.ID)
	}

	return nil
}

func (that *GameManager) lockedGameOf(ctx context.Context, playerID string) (*entity.Game, func(), error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, nil, apperror.ErrNoActiveGames
	}

	unlock := that.lock(player.GameID)

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		unlock()
		return nil, nil, apperror.ErrNoActiveGames
	}

	if err != nil {
		unlock()
		return nil, nil, fmt.Errorf("failed get game by id: %w", err)
	}

	return game, unlock, nil
}

func (that *GameManager) cleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "cleanupGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		if err := that.playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: player.ID}); err != nil {
			log.Error("failed to update", "player", player.ID, "error", err)
		}
	}

	that.locks.Delete(game.ID)
}

func (that *GameManager) lock(gameID string) func() {
	value, _ := that.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu, _ := value.(*sync.Mutex)
	mu.Lock()

	return mu.Unlock
}
