package entity

import (
	"fmt"

	"github.com/rocketscienceinc/neon-tictactoe/internal/apperror"
)

// Mark is a player identity and what occupies a cell.
type Mark string

const (
	PlayerO Mark = "O"
	PlayerX Mark = "X"

	EmptyCell Mark = ""
)

// Board is a 3x3 grid stored row-major.
type Board [9]Mark

type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvC Mode = "pvc"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// State is the turn state machine of a game. O always moves first.
type State string

const (
	StateWaiting State = "waiting"
	StateOTurn   State = "o_turn"
	StateXTurn   State = "x_turn"
	StateOWon    State = "o_won"
	StateXWon    State = "x_won"
	StateDraw    State = "draw"
)

type Scores struct {
	O int `json:"O"`
	X int `json:"X"`
}

type Game struct {
	ID         string     `json:"id"`
	Board      Board      `json:"board"`
	State      State      `json:"state"`
	Mode       Mode       `json:"mode"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Scores     Scores     `json:"scores"`
	Round      int        `json:"round"`
	Players    []*Player  `json:"players,omitempty"`
}

func NewGame(id string, mode Mode, difficulty Difficulty) *Game {
	game := &Game{
		ID:    id,
		Mode:  mode,
		State: StateWaiting,
		Round: 1,
	}

	if mode == ModePvC {
		game.Difficulty = difficulty
	}

	return game
}

// Turn returns the mark to move, or EmptyCell if nobody may move.
func (that *Game) Turn() Mark {
	switch that.State {
	case StateOTurn:
		return PlayerO
	case StateXTurn:
		return PlayerX
	default:
		return EmptyCell
	}
}

// Winner returns the winning mark of a finished round, or EmptyCell.
func (that *Game) Winner() Mark {
	switch that.State {
	case StateOWon:
		return PlayerO
	case StateXWon:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that *Game) IsFinished() bool {
	return that.State == StateOWon || that.State == StateXWon || that.State == StateDraw
}

func (that *Game) IsOngoing() bool {
	return that.State == StateOTurn || that.State == StateXTurn
}

func (that *Game) IsWaiting() bool {
	return that.State == StateWaiting
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModePvC
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnknownGameStatus, that.State)
	}
}

// Bot returns the computer seat, if any.
func (that *Game) Bot() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

func (that *Game) AddScore(mark Mark) {
	switch mark {
	case PlayerO:
		that.Scores.O++
	case PlayerX:
		that.Scores.X++
	}
}

func ParseMode(value string) (Mode, error) {
	switch mode := Mode(value); mode {
	case ModePvP, ModePvC:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMode, value)
	}
}

func ParseDifficulty(value string) (Difficulty, error) {
	switch difficulty := Difficulty(value); difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return difficulty, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidDifficulty, value)
	}
}
