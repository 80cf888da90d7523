package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// CellSize is the width and height in pixels of one grid cell
const CellSize = 48

var (
	iceShade  = color.RGBA{R: 0xd6, G: 0xea, B: 0xf8, A: 0xff}
	holeShade = color.RGBA{R: 0x1b, G: 0x26, B: 0x31, A: 0xff}
	goalShade = color.RGBA{R: 0xf4, G: 0xd0, B: 0x3f, A: 0xff}
	lineShade = color.RGBA{R: 0x85, G: 0x92, B: 0x9e, A: 0xff}
	textShade = color.Black
)

// Image draws the grid and returns the drawing context
func Image(g *Grid) *gg.Context {
	dc := gg.NewContext(g.Cols*CellSize, g.Rows*CellSize)
	dc.SetColor(iceShade)
	dc.Clear()

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			x, y := float64(c*CellSize), float64(r*CellSize)
			glyph := g.At(r, c)

			dc.DrawRectangle(x, y, CellSize, CellSize)
			switch glyph {
			case HoleGlyph:
				dc.SetColor(holeShade)
				dc.FillPreserve()
			case GoalGlyph:
				dc.SetColor(goalShade)
				dc.FillPreserve()
			}
			dc.SetColor(lineShade)
			dc.SetLineWidth(1.0)
			dc.Stroke()

			if glyph == HoleGlyph {
				dc.SetColor(iceShade)
			} else {
				dc.SetColor(textShade)
			}
			dc.DrawStringAnchored(string(glyph), x+CellSize/2, y+CellSize/2,
				0.5, 0.5)
		}
	}
	return dc
}

// WritePNG draws the grid and writes it to w as a PNG image
func WritePNG(w io.Writer, g *Grid) error {
	if err := Image(g).EncodePNG(w); err != nil {
		return fmt.Errorf("writePNG: %v", err)
	}
	return nil
}

// SavePNG draws the grid and saves it as a PNG image in filename
func SavePNG(filename string, g *Grid) error {
	if err := Image(g).SavePNG(filename); err != nil {
		return fmt.Errorf("savePNG: %v", err)
	}
	return nil
}
