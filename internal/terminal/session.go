package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/internal/tictactoe"
)

const usage = "enter a cell 0-8, r for a new round or q to quit"

type botService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
}

// Session plays one local game: humans type moves, the computer answers in pvc.
type Session struct {
	game     *entity.Game
	renderer *Renderer
	bot      botService
	input    *bufio.Scanner
}

func NewSession(game *entity.Game, renderer *Renderer, bot botService, in io.Reader) *Session {
	return &Session{
		game:     game,
		renderer: renderer,
		bot:      bot,
		input:    bufio.NewScanner(in),
	}
}

// Run starts the game and plays it until the player quits, the input ends or ctx is done.
func (that *Session) Run(ctx context.Context) error {
	if that.game.IsWaiting() {
		if err := tictactoe.Start(that.game); err != nil {
			return fmt.Errorf("failed start game: %w", err)
		}
	}

	for {
		if err := that.renderer.Render(that.game); err != nil {
			return err
		}

		if that.computerToMove() {
			if err := that.computerTurn(ctx); err != nil {
				return err
			}
			continue
		}

		if that.game.IsFinished() {
			if err := that.renderer.Notice("r for a new round, q to quit"); err != nil {
				return err
			}
		}

		if !that.input.Scan() {
			return that.input.Err()
		}

		quit, err := that.handleLine(strings.TrimSpace(that.input.Text()))
		if err != nil {
			return err
		}

		if quit {
			return nil
		}
	}
}

func (that *Session) Game() *entity.Game {
	return that.game
}

func (that *Session) handleLine(line string) (bool, error) {
	switch line {
	case "q":
		return true, nil
	case "r":
		if err := tictactoe.NewRound(that.game); err != nil {
			return false, fmt.Errorf("failed start new round: %w", err)
		}
		return false, nil
	}

	cell, err := strconv.Atoi(line)
	if err != nil {
		return false, that.renderer.Notice(usage)
	}

	if err = tictactoe.MakeTurn(that.game, that.game.Turn(), cell); err != nil {
		return false, that.renderer.Notice(userMessage(err))
	}

	return false, nil
}

func (that *Session) computerToMove() bool {
	return that.game.IsWithBot() && that.game.IsOngoing() && that.game.Turn() == tictactoe.ComputerMark
}

func (that *Session) computerTurn(ctx context.Context) error {
	if err := that.bot.MakeTurn(ctx, that.game); err != nil {
		return fmt.Errorf("computer failed to make turn: %w", err)
	}

	return nil
}

func userMessage(err error) string {
	for unwrapped := errors.Unwrap(err); unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		err = unwrapped
	}

	return err.Error()
}
