package board

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
)

type Config struct {
	Cols     int
	Rows     int
	Bombs    int
	CellSize int
	// LockOpen makes flag toggles on open cells a no-op. Off by default,
	// which keeps the unconditional toggle.
	LockOpen bool
}

const (
	// MaxCells bounds Cols*Rows.
	MaxCells    = 1 << 20
	MaxCellSize = 1 << 10
)

// DefaultConfig is a 20x15 board with 20 bombs and 25px cells.
func DefaultConfig() Config {
	return Config{Cols: 20, Rows: 15, Bombs: 20, CellSize: 25}
}

func (c Config) Validate() error {
	switch {
	case c.Cols <= 0:
		return fmt.Errorf("%w: cols must be positive, got %d", ErrInvalidConfig, c.Cols)
	case c.Rows <= 0:
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidConfig, c.Rows)
	case c.Bombs <= 0:
		return fmt.Errorf("%w: bombs must be positive, got %d", ErrInvalidConfig, c.Bombs)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalidConfig, c.CellSize)
	case c.CellSize > MaxCellSize:
		return fmt.Errorf("%w: cell size must be at most %d, got %d", ErrInvalidConfig, MaxCellSize, c.CellSize)
	case c.Cols > MaxCells/c.Rows:
		return fmt.Errorf("%w: board %dx%d exceeds %d cells",
			ErrInvalidConfig, c.Cols, c.Rows, MaxCells)
	case c.Bombs >= c.Cols*c.Rows:
		return fmt.Errorf("%w: bombs (%d) must be fewer than cells (%d)",
			ErrInvalidConfig, c.Bombs, c.Cols*c.Rows)
	}
	return nil
}

// Fields returns the config as a flat map for structured logging.
func (c Config) Fields() map[string]any {
	return map[string]any{
		"cols":      c.Cols,
		"rows":      c.Rows,
		"bombs":     c.Bombs,
		"cell_size": c.CellSize,
		"lock_open": c.LockOpen,
	}
}

// Intner is the source of uniform random integers in [0, n).
// [*rand.Rand] satisfies it.
type Intner interface {
	IntN(n int) int
}

// NewRand returns a PCG-backed generator with a random seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

type State int

const (
	InProgress State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// [State] implements [encoding.TextMarshaler]
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Board owns a cols x rows grid of cells stored row-major. A Board is not
// safe for concurrent use.
type Board struct {
	cfg   Config
	rnd   Intner
	cells []Cell
	debug bool
}

// New validates cfg and returns a freshly reset board. A nil rnd is replaced
// with [NewRand].
func New(cfg Config, rnd Intner) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = NewRand()
	}
	b := &Board{cfg: cfg, rnd: rnd}
	b.Reset()
	return b, nil
}

func (b *Board) Config() Config { return b.cfg }

func (b *Board) Cols() int { return b.cfg.Cols }

func (b *Board) Rows() int { return b.cfg.Rows }

func (b *Board) Bombs() int { return b.cfg.Bombs }

func (b *Board) CellSize() int { return b.cfg.CellSize }

// Width is the board width in pixels.
func (b *Board) Width() int { return b.cfg.Cols * b.cfg.CellSize }

// Height is the board height in pixels.
func (b *Board) Height() int { return b.cfg.Rows * b.cfg.CellSize }

// Reset discards all cell state and places bombs anew. Draws that land on
// an existing bomb are rejected, so placement runs until exactly
// Config.Bombs distinct cells carry a bomb.
func (b *Board) Reset() {
	cols, rows := b.cfg.Cols, b.cfg.Rows
	b.cells = make([]Cell, cols*rows)
	for i := range b.cells {
		b.cells[i] = Cell{x: i % cols, y: i / cols, board: b}
	}

	placed := 0
	for placed < b.cfg.Bombs {
		x := b.rnd.IntN(cols)
		y := b.rnd.IntN(rows)
		c := &b.cells[y*cols+x]
		if !c.IsBomb() {
			c.status |= Bomb
			placed++
		}
	}
}

func (b *Board) CellAt(x, y int) (*Cell, bool) {
	if x < 0 || x >= b.cfg.Cols || y < 0 || y >= b.cfg.Rows {
		return nil, false
	}
	return &b.cells[y*b.cfg.Cols+x], true
}

// Cells returns every cell in row-major order.
func (b *Board) Cells() []*Cell {
	cells := make([]*Cell, len(b.cells))
	for i := range b.cells {
		cells[i] = &b.cells[i]
	}
	return cells
}

func (b *Board) CountCells(match Matcher) int {
	count := 0
	for i := range b.cells {
		if match(b.cells[i].status) {
			count++
		}
	}
	return count
}

func (b *Board) Lose() bool {
	return b.CountCells(Contains(Bomb|Open)) > 0
}

func (b *Board) Win() bool {
	return !b.Lose() &&
		b.CountCells(Contains(Open)) == b.cfg.Cols*b.cfg.Rows-b.cfg.Bombs
}

func (b *Board) InProgress() bool {
	return !b.Lose() && !b.Win()
}

func (b *Board) State() State {
	switch {
	case b.Lose():
		return Lost
	case b.Win():
		return Won
	default:
		return InProgress
	}
}

// Open opens the cell at (x, y). It does not check the game state.
func (b *Board) Open(x, y int) error {
	c, ok := b.CellAt(x, y)
	if !ok {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	c.Open()
	return nil
}

// Flag toggles the flag at (x, y). It does not check the game state.
func (b *Board) Flag(x, y int) error {
	c, ok := b.CellAt(x, y)
	if !ok {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	c.Flag()
	return nil
}

// Debug reports whether the debug reveal is on. It affects display only.
func (b *Board) Debug() bool { return b.debug }

func (b *Board) SetDebug(debug bool) { b.debug = debug }

func (b *Board) ToggleDebug() { b.debug = !b.debug }
