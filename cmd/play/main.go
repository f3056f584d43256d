package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
	"github.com/rocketscienceinc/neon-tictactoe/internal/service"
	"github.com/rocketscienceinc/neon-tictactoe/internal/terminal"
	"github.com/rocketscienceinc/neon-tictactoe/internal/tictactoe"
)

func main() {
	mode := flag.String("mode", string(entity.ModePvC), "game mode: pvp or pvc")
	difficulty := flag.String("difficulty", string(entity.DifficultyMedium), "computer difficulty: easy, medium or hard")
	delay := flag.Duration("delay", 700*time.Millisecond, "computer think delay")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := run(logger, *mode, *difficulty, *delay); err != nil {
		logger.Error("play failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, modeFlag, difficultyFlag string, delay time.Duration) error {
	mode, err := entity.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	var difficulty entity.Difficulty
	if mode == entity.ModePvC {
		if difficulty, err = entity.ParseDifficulty(difficultyFlag); err != nil {
			return err
		}
	}

	game := entity.NewGame("local", mode, difficulty)
	game.Players = []*entity.Player{{ID: "local", Mark: entity.PlayerO, GameID: game.ID}}
	if game.IsWithBot() {
		game.Players = append(game.Players, entity.NewBotPlayer(game.ID, tictactoe.ComputerMark))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigs)
		close(sigs)
	}()

	go exitOnSignal(sigs, cancel, os.Exit)

	decider := tictactoe.NewDecider(rand.NewSource(time.Now().UnixNano()), tictactoe.DefaultMediumSearchRate)
	bot := service.NewBotService(logger, decider, delay)
	renderer := terminal.NewRenderer(os.Stdout, termenv.WithProfile(termenv.EnvColorProfile()))
	session := terminal.NewSession(game, renderer, bot, os.Stdin)

	if err = session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("session ended: %w", err)
	}

	return nil
}

// exitOnSignal ends the process on the first signal, since the session may be
// blocked on stdin. A closed channel means run returned and nothing is done.
func exitOnSignal(sigs <-chan os.Signal, cancel context.CancelFunc, exit func(int)) {
	if _, ok := <-sigs; !ok {
		return
	}

	cancel()
	fmt.Fprintln(os.Stdout)
	exit(0)
}
