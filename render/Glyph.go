// Package render renders what tabular agents learn on grid shaped
// environments, mapping each state to the glyph of its greedy action
// or to a hole or goal marker
package render

import (
	"fmt"
)

// Glyphs of the four canonical actions, indexed by action
var glyphs = [...]byte{'<', 'v', '>', '^'}

// Markers of terminal cells
const (
	HoleGlyph byte = 'H'
	GoalGlyph byte = 'G'
)

// Glyph returns the glyph of action: '<' for 0 (left), 'v' for 1
// (down), '>' for 2 (right) and '^' for 3 (up)
func Glyph(action int) (byte, error) {
	if action < 0 || action >= len(glyphs) {
		return 0, fmt.Errorf("glyph: no glyph for action %d", action)
	}
	return glyphs[action], nil
}

// Action returns the action of a directional glyph
func Action(glyph byte) (int, error) {
	for a, g := range glyphs {
		if g == glyph {
			return a, nil
		}
	}
	return 0, fmt.Errorf("action: %q is not an action glyph", glyph)
}
