package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/neon-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
)

// Start opens the first round once both seats are taken.
func Start(gameInstance *entity.Game) error {
	if !gameInstance.IsWaiting() {
		return fmt.Errorf("%w: state %s", apperror.ErrGameAlreadyExists, gameInstance.State)
	}

	gameInstance.Board = entity.Board{}
	gameInstance.State = entity.StateOTurn

	return nil
}

// MakeTurn places mark on cell and advances the state machine.
func MakeTurn(gameInstance *entity.Game, mark entity.Mark, cell int) error {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return err
	}

	if err := validateMove(gameInstance, mark, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.Board[cell] = mark
	updateGameState(gameInstance, mark)

	return nil
}

// NewRound clears the board of a finished game and keeps the scores.
func NewRound(gameInstance *entity.Game) error {
	if gameInstance.IsWaiting() {
		return apperror.ErrGameIsNotStarted
	}

	gameInstance.Board = entity.Board{}
	gameInstance.State = entity.StateOTurn
	gameInstance.Round++

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(gameInstance *entity.Game, mark entity.Mark, cell int) error {
	if cell < 0 || cell >= len(gameInstance.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if gameInstance.Turn() != mark {
		return apperror.ErrNotYourTurn
	}

	if gameInstance.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameState - the mark that just moved is the only one that can have won.
func updateGameState(gameInstance *entity.Game, mark entity.Mark) {
	switch IsTerminal(gameInstance.Board) {
	case OutcomeWonByO:
		gameInstance.State = entity.StateOWon
		gameInstance.AddScore(entity.PlayerO)
	case OutcomeWonByX:
		gameInstance.State = entity.StateXWon
		gameInstance.AddScore(entity.PlayerX)
	case OutcomeDraw:
		gameInstance.State = entity.StateDraw
	case OutcomeOngoing:
		if Opponent(mark) == entity.PlayerX {
			gameInstance.State = entity.StateXTurn
		} else {
			gameInstance.State = entity.StateOTurn
		}
	}
}
