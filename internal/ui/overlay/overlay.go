// Package overlay draws one rendered block on top of another without
// clearing the screen underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where the foreground is anchored.
type Position int

const (
	// Center places the foreground in the middle of the viewport.
	Center Position = iota
	// Bottom places the foreground at the bottom center of the viewport.
	Bottom
)

// Config controls placement.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadY keeps Bottom placement this many rows above the last line.
	PadY int
}

// Place renders fg over bg. Both may contain ANSI styling; the parts of
// bg left and right of fg keep theirs.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], fgLine, x)
	}

	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of line starting at column x with insert.
func splice(line, insert string, x int) string {
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	end := x + ansi.StringWidth(insert)
	if end < ansi.StringWidth(line) {
		right = ansi.TruncateLeft(line, end, "")
	}

	return left + insert + right
}

func origin(cfg Config, fgWidth, fgHeight int) (x, y int) {
	x = (cfg.Width - fgWidth) / 2
	switch cfg.Position {
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}
