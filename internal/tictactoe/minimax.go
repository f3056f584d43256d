package tictactoe

import "github.com/rocketscienceinc/neon-tictactoe/internal/entity"

// Leaf scores, from X's point of view. There is no depth discount.
const (
	ScoreXWins = 10
	ScoreOWins = -10
	ScoreDraw  = 0
)

// NoMove is returned as the index of a terminal position.
const NoMove = -1

// Minimax runs an exhaustive search of the remaining game tree with X maximising
// and O minimising. It returns the backed-up score and the first move that
// reaches it in ascending cell order.
//
// The board is passed by value, so each branch works on its own copy.
func Minimax(board entity.Board, toMove entity.Mark) (int, int) {
	switch IsTerminal(board) {
	case OutcomeWonByO:
		return ScoreOWins, NoMove
	case OutcomeWonByX:
		return ScoreXWins, NoMove
	case OutcomeDraw:
		return ScoreDraw, NoMove
	case OutcomeOngoing:
	}

	bestIndex := NoMove
	var bestScore int

	for _, cell := range AvailableMoves(board) {
		next := board
		next[cell] = toMove

		score, _ := Minimax(next, Opponent(toMove))

		if bestIndex == NoMove || improves(toMove, score, bestScore) {
			bestScore = score
			bestIndex = cell
		}
	}

	return bestScore, bestIndex
}

// improves is a strict comparison: ties keep the earlier move.
func improves(toMove entity.Mark, score, best int) bool {
	if toMove == entity.PlayerX {
		return score > best
	}
	return score < best
}
