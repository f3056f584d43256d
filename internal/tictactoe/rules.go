package tictactoe

import "github.com/rocketscienceinc/neon-tictactoe/internal/entity"

type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeWonByO  Outcome = "won_by_o"
	OutcomeWonByX  Outcome = "won_by_x"
	OutcomeDraw    Outcome = "draw"
)

// WinLines - rows, columns and diagonals.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// HasWon reports whether mark occupies every cell of some win line.
func HasWon(board entity.Board, mark entity.Mark) bool {
	for _, line := range WinLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}

	return false
}

// AvailableMoves returns the empty cells in ascending order.
// The search relies on this order for its tie-break.
func AvailableMoves(board entity.Board) []int {
	moves := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			moves = append(moves, i)
		}
	}

	return moves
}

// IsTerminal classifies the board.
func IsTerminal(board entity.Board) Outcome {
	switch {
	case HasWon(board, entity.PlayerO):
		return OutcomeWonByO
	case HasWon(board, entity.PlayerX):
		return OutcomeWonByX
	case len(AvailableMoves(board)) == 0:
		return OutcomeDraw
	default:
		return OutcomeOngoing
	}
}

// Winner returns the mark that won, or EmptyCell for a draw or an ongoing game.
func Winner(outcome Outcome) entity.Mark {
	switch outcome {
	case OutcomeWonByO:
		return entity.PlayerO
	case OutcomeWonByX:
		return entity.PlayerX
	default:
		return entity.EmptyCell
	}
}

func Opponent(mark entity.Mark) entity.Mark {
	if mark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}
