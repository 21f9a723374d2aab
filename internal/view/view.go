// Package view derives what a renderer should draw from board state. It
// never mutates the board.
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/board"
)

type Glyph string

const (
	GlyphBlank  Glyph = "blank"
	GlyphNumber Glyph = "number"
	GlyphBomb   Glyph = "bomb"
)

type Banner string

const (
	BannerNone Banner = ""
	BannerWin  Banner = "WIN"
	BannerLose Banner = "LOSE"
)

type Cell struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Glyph Glyph `json:"glyph"`
	Count int   `json:"count,omitempty"`
	// Covered means a cover is drawn over the glyph.
	Covered bool `json:"covered"`
	// Flagged means a flag mark is drawn.
	Flagged bool `json:"flagged"`
	Pressed bool `json:"pressed,omitempty"`
}

type Snapshot struct {
	Cols     int         `json:"cols"`
	Rows     int         `json:"rows"`
	Bombs    int         `json:"bombs"`
	CellSize int         `json:"cell_size"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	State    board.State `json:"state"`
	Debug    bool        `json:"debug"`
	Banner   Banner      `json:"banner,omitempty"`
	Status   string      `json:"status"`
	Cells    []Cell      `json:"cells"`
}

// New captures the drawable state of b. Cells listed in pressed are drawn
// with a pressed cover.
func New(b *board.Board, pressed ...*board.Cell) *Snapshot {
	lose := b.Lose()

	s := &Snapshot{
		Cols:     b.Cols(),
		Rows:     b.Rows(),
		Bombs:    b.Bombs(),
		CellSize: b.CellSize(),
		Width:    b.Width(),
		Height:   b.Height(),
		State:    b.State(),
		Debug:    b.Debug(),
		Status:   StatusLine(b),
		Cells:    make([]Cell, 0, b.Cols()*b.Rows()),
	}
	switch s.State {
	case board.Won:
		s.Banner = BannerWin
	case board.Lost:
		s.Banner = BannerLose
	}

	for _, c := range b.Cells() {
		v := Cell{X: c.X(), Y: c.Y(), Glyph: GlyphBlank}
		if c.IsBomb() {
			v.Glyph = GlyphBomb
		} else if n := c.BombNeighbors(); n > 0 {
			v.Glyph = GlyphNumber
			v.Count = n
		}

		// bombs are exposed once the game is lost
		if !c.IsOpen() && !(lose && c.IsBomb()) {
			v.Covered = !b.Debug()
			v.Flagged = c.IsFlagged()
			v.Pressed = v.Covered && contains(pressed, c)
		}
		s.Cells = append(s.Cells, v)
	}

	return s
}

func contains(cells []*board.Cell, c *board.Cell) bool {
	for _, p := range cells {
		if c.Equal(p) {
			return true
		}
	}
	return false
}

// StatusLine summarizes open cells and bombs, e.g. "cells:12/300 bombs:20".
func StatusLine(b *board.Board) string {
	return fmt.Sprintf("cells:%d/%d bombs:%d",
		b.CountCells(board.Contains(board.Open)),
		b.Cols()*b.Rows(),
		b.CountCells(board.Contains(board.Bomb)),
	)
}

func (s *Snapshot) CellAt(x, y int) (Cell, bool) {
	if x < 0 || x >= s.Cols || y < 0 || y >= s.Rows {
		return Cell{}, false
	}
	return s.Cells[y*s.Cols+x], true
}

// Rune is the single-character form used by [Snapshot.String].
func (c Cell) Rune() rune {
	switch {
	case c.Flagged:
		return 'F'
	case c.Pressed:
		return '_'
	case c.Covered:
		return '#'
	case c.Glyph == GlyphBomb:
		return '*'
	case c.Glyph == GlyphNumber:
		return rune(strconv.Itoa(c.Count)[0])
	default:
		return '.'
	}
}

func (s *Snapshot) String() string {
	var b strings.Builder
	for y := range s.Rows {
		for x := range s.Cols {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(s.Cells[y*s.Cols+x].Rune())
		}
		b.WriteByte('\n')
	}
	if s.Banner != BannerNone {
		fmt.Fprintln(&b, s.Banner)
	}
	b.WriteString(s.Status)
	return b.String()
}
