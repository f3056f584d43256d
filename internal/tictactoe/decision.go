package tictactoe

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
)

// DefaultMediumSearchRate - share of medium moves that come from the search.
const DefaultMediumSearchRate = 0.6

// ComputerMark is the mark the computer always plays.
const ComputerMark = entity.PlayerX

// Decider picks the computer's move for a difficulty tier.
// It is safe for concurrent use.
type Decider struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	searchRate float64
}

func NewDecider(source rand.Source, mediumSearchRate float64) *Decider {
	if mediumSearchRate < 0 || mediumSearchRate > 1 {
		mediumSearchRate = DefaultMediumSearchRate
	}

	return &Decider{
		rnd:        rand.New(source), //nolint: gosec // game randomness
		searchRate: mediumSearchRate,
	}
}

// SelectMove returns the cell X plays. The board must have at least one empty cell.
func (that *Decider) SelectMove(board entity.Board, difficulty entity.Difficulty) int {
	moves := AvailableMoves(board)
	if len(moves) == 0 {
		panic(fmt.Sprintf("tictactoe: SelectMove called on a full board %v", board))
	}

	switch difficulty {
	case entity.DifficultyEasy:
		return that.randomMove(moves)
	case entity.DifficultyMedium:
		if that.float64() >= that.searchRate {
			return that.randomMove(moves)
		}
	case entity.DifficultyHard:
	}

	// a board that is already won still has empty cells but no search result
	if _, index := Minimax(board, ComputerMark); index != NoMove {
		return index
	}

	return moves[0]
}

func (that *Decider) randomMove(moves []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return moves[that.rnd.Intn(len(moves))]
}

func (that *Decider) float64() float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Float64()
}
