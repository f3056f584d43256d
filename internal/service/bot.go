package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/neon-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/internal/tictactoe"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
}

type decider interface {
	SelectMove(board entity.Board, difficulty entity.Difficulty) int
}

type botService struct {
	logger     *slog.Logger
	decider    decider
	thinkDelay time.Duration
}

func NewBotService(logger *slog.Logger, decider decider, thinkDelay time.Duration) BotService {
	return &botService{
		logger:     logger.With("component", "bot"),
		decider:    decider,
		thinkDelay: thinkDelay,
	}
}

// MakeTurn - waits the think delay, then plays the computer's move on game.
func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) error {
	botPlayer := game.Bot()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	if err := game.ConfirmOngoingState(); err != nil {
		return err
	}

	if game.Turn() != botPlayer.Mark {
		return apperror.ErrNotYourTurn
	}

	if len(tictactoe.AvailableMoves(game.Board)) == 0 {
		return apperror.ErrNoAvailableMoves
	}

	if err := that.think(ctx); err != nil {
		return err
	}

	started := time.Now()
	cell := that.decider.SelectMove(game.Board, game.Difficulty)

	that.logger.Debug("bot selected move",
		"gameID", game.ID,
		"difficulty", game.Difficulty,
		"cell", cell,
		"took", time.Since(started),
	)

	if err := tictactoe.MakeTurn(game, botPlayer.Mark, cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

func (that *botService) think(ctx context.Context) error {
	if that.thinkDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(that.thinkDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("bot interrupted while thinking: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
