package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/neon-tictactoe/internal/entity"
)

const (
	colorO     = "#00d4ff"
	colorX     = "#ff0055"
	colorMuted = "#6b6b80"
)

// Renderer draws games on a terminal, colouring marks when the terminal allows it.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

// Render writes the scores, the status line and the board.
func (that *Renderer) Render(game *entity.Game) error {
	var b strings.Builder

	b.WriteString(that.Scores(game))
	b.WriteString("\n\n")
	b.WriteString(that.Status(game))
	b.WriteString("\n\n")
	b.WriteString(that.Board(game.Board))
	b.WriteString("\n")

	if _, err := io.WriteString(that.out, b.String()); err != nil {
		return fmt.Errorf("failed to render game: %w", err)
	}

	return nil
}

// Notice writes a single muted line.
func (that *Renderer) Notice(text string) error {
	if _, err := fmt.Fprintln(that.out, that.out.String(text).Foreground(that.out.Color(colorMuted))); err != nil {
		return fmt.Errorf("failed to write notice: %w", err)
	}

	return nil
}

// Board draws the grid; empty cells show their index.
func (that *Renderer) Board(board entity.Board) string {
	rows := make([]string, 0, 3)

	for row := 0; row < 3; row++ {
		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			idx := row*3 + col
			cells = append(cells, " "+that.cell(board[idx], idx)+" ")
		}
		rows = append(rows, strings.Join(cells, "|"))
	}

	return strings.Join(rows, "\n---+---+---\n")
}

func (that *Renderer) Scores(game *entity.Game) string {
	opponent := "Player X"
	if game.IsWithBot() {
		opponent = "Computer"
	}

	return fmt.Sprintf("%s %d   %s %d   round %d",
		that.mark(entity.PlayerO, "Player O"), game.Scores.O,
		that.mark(entity.PlayerX, opponent), game.Scores.X,
		game.Round,
	)
}

func (that *Renderer) Status(game *entity.Game) string {
	switch {
	case game.Winner() != entity.EmptyCell:
		winner := game.Winner()
		return that.mark(winner, fmt.Sprintf("Winner: Player %s!", winner))
	case game.State == entity.StateDraw:
		return that.out.String("It's a Draw!").Foreground(that.out.Color(colorMuted)).String()
	case game.IsWaiting():
		return "Waiting for an opponent"
	case game.IsWithBot() && game.Turn() == entity.PlayerX:
		return that.mark(entity.PlayerX, "AI is thinking...")
	default:
		return fmt.Sprintf("Player %s's Turn", that.mark(game.Turn(), string(game.Turn())))
	}
}

func (that *Renderer) cell(mark entity.Mark, idx int) string {
	if mark == entity.EmptyCell {
		return that.out.String(strconv.Itoa(idx)).Foreground(that.out.Color(colorMuted)).Faint().String()
	}

	return that.mark(mark, string(mark))
}

func (that *Renderer) mark(mark entity.Mark, text string) string {
	color := colorO
	if mark == entity.PlayerX {
		color = colorX
	}

	return that.out.String(text).Foreground(that.out.Color(color)).Bold().String()
}
