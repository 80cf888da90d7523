package render

import (
	"strings"

	"github.com/logrusorgru/aurora"
)

// Text returns the grid as text, one line per row. If colors is true,
// holes, goals and arrows are coloured with ANSI escape codes.
func Text(g *Grid, colors bool) string {
	au := aurora.NewAurora(colors)

	var b strings.Builder
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			glyph := g.At(r, c)
			cell := " " + string(glyph) + " "

			switch glyph {
			case HoleGlyph:
				b.WriteString(au.Red(cell).String())
			case GoalGlyph:
				b.WriteString(au.Bold(au.Green(cell)).String())
			default:
				b.WriteString(au.Cyan(cell).String())
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
