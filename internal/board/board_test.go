package board

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script replays a fixed sequence of draws, wrapping around when exhausted.
type script struct {
	values []int
	next   int
}

func (s *script) IntN(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

// newBoard builds a board whose bombs land exactly on the given positions.
func newBoard(t *testing.T, cols, rows int, bombs ...[2]int) *Board {
	t.Helper()
	values := make([]int, 0, 2*len(bombs))
	for _, p := range bombs {
		values = append(values, p[0], p[1])
	}
	b, err := New(Config{
		Cols: cols, Rows: rows, Bombs: len(bombs), CellSize: 10,
	}, &script{values: values})
	require.NoError(t, err)
	return b
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{"default", DefaultConfig(), true},
		{"smallest", Config{Cols: 2, Rows: 1, Bombs: 1, CellSize: 1}, true},
		{"zero cols", Config{Cols: 0, Rows: 5, Bombs: 1, CellSize: 10}, false},
		{"negative rows", Config{Cols: 5, Rows: -1, Bombs: 1, CellSize: 10}, false},
		{"zero bombs", Config{Cols: 5, Rows: 5, Bombs: 0, CellSize: 10}, false},
		{"zero cell size", Config{Cols: 5, Rows: 5, Bombs: 1, CellSize: 0}, false},
		{"bombs fill board", Config{Cols: 3, Rows: 3, Bombs: 9, CellSize: 10}, false},
		{"bombs exceed board", Config{Cols: 3, Rows: 3, Bombs: 20, CellSize: 10}, false},
		{"largest board", Config{Cols: 1024, Rows: 1024, Bombs: 1, CellSize: 1}, true},
		{"too many cells", Config{Cols: 1025, Rows: 1024, Bombs: 1, CellSize: 1}, false},
		{"overflowing sides", Config{Cols: 1 << 31, Rows: 1 << 31, Bombs: 1, CellSize: 1}, false},
		{"one huge row", Config{Cols: 1 << 40, Rows: 1, Bombs: 1, CellSize: 1}, false},
		{"huge cell size", Config{Cols: 5, Rows: 5, Bombs: 1, CellSize: 1 << 40}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	b, err := New(Config{Cols: 2, Rows: 2, Bombs: 4, CellSize: 10}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, b)

	b, err = New(Config{Cols: 1 << 31, Rows: 1 << 31, Bombs: 1, CellSize: 1}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, b)
}

func TestResetPlacesExactBombCount(t *testing.T) {
	configs := []Config{
		DefaultConfig(),
		{Cols: 9, Rows: 9, Bombs: 10, CellSize: 10},
		{Cols: 30, Rows: 16, Bombs: 99, CellSize: 10},
		{Cols: 4, Rows: 4, Bombs: 15, CellSize: 10},
		{Cols: 1, Rows: 2, Bombs: 1, CellSize: 10},
	}
	for i, cfg := range configs {
		b, err := New(cfg, rand.New(rand.NewPCG(uint64(i), 42)))
		require.NoError(t, err)
		for range 5 {
			assert.Equal(t, cfg.Bombs, b.CountCells(Contains(Bomb)))
			assert.Equal(t, 0, b.CountCells(Contains(Open)))
			assert.Equal(t, 0, b.CountCells(Contains(Flag)))
			assert.True(t, b.InProgress())
			b.Reset()
		}
	}
}

func TestResetRejectsRepeatedDraws(t *testing.T) {
	b, err := New(
		Config{Cols: 3, Rows: 3, Bombs: 2, CellSize: 10},
		&script{values: []int{0, 0, 0, 0, 0, 0, 2, 1}},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, b.CountCells(Contains(Bomb)))
	c, _ := b.CellAt(0, 0)
	assert.True(t, c.IsBomb())
	c, _ = b.CellAt(2, 1)
	assert.True(t, c.IsBomb())
}

func TestCellAt(t *testing.T) {
	b := newBoard(t, 4, 3, [2]int{0, 0})

	for y := range 3 {
		for x := range 4 {
			c, ok := b.CellAt(x, y)
			require.True(t, ok)
			assert.Equal(t, x, c.X())
			assert.Equal(t, y, c.Y())
		}
	}

	outside := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {4, 3}, {-1, -1}, {100, 100}}
	for _, p := range outside {
		c, ok := b.CellAt(p[0], p[1])
		assert.False(t, ok, "(%d,%d)", p[0], p[1])
		assert.Nil(t, c)
	}
}

func TestNeighbors(t *testing.T) {
	b := newBoard(t, 4, 3, [2]int{0, 0})

	tests := []struct {
		name      string
		x, y      int
		neighbors [][2]int
	}{
		{"top left corner", 0, 0, [][2]int{{1, 0}, {0, 1}, {1, 1}}},
		{"bottom right corner", 3, 2, [][2]int{{2, 1}, {3, 1}, {2, 2}}},
		{"top edge", 1, 0, [][2]int{{0, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}},
		{"left edge", 0, 1, [][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 2}, {1, 2}}},
		{"interior", 1, 1, [][2]int{
			{0, 0}, {1, 0}, {2, 0},
			{0, 1}, {2, 1},
			{0, 2}, {1, 2}, {2, 2},
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, ok := b.CellAt(test.x, test.y)
			require.True(t, ok)

			var got [][2]int
			for _, n := range c.Neighbors() {
				got = append(got, [2]int{n.X(), n.Y()})
			}
			assert.Equal(t, test.neighbors, got)
		})
	}
}

func TestCellEqual(t *testing.T) {
	b := newBoard(t, 3, 3, [2]int{1, 1})
	a, _ := b.CellAt(2, 1)
	same := b.Cells()[1*3+2]
	other, _ := b.CellAt(1, 2)

	assert.True(t, a.Equal(same))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(other))
	assert.False(t, a.Equal(nil))

	// position only: status does not take part
	require.NoError(t, b.Flag(2, 1))
	assert.True(t, same.Equal(a))
}

func TestCellsRowMajor(t *testing.T) {
	b := newBoard(t, 3, 2, [2]int{0, 0})
	cells := b.Cells()
	require.Len(t, cells, 6)
	for i, c := range cells {
		assert.Equal(t, i%3, c.X())
		assert.Equal(t, i/3, c.Y())
	}
}

func TestCountCellsMatchers(t *testing.T) {
	b := newBoard(t, 3, 3, [2]int{1, 1})
	require.NoError(t, b.Flag(1, 1))
	require.NoError(t, b.Open(0, 0))

	assert.Equal(t, 0, b.CountCells(Exactly(Bomb)))
	assert.Equal(t, 1, b.CountCells(Contains(Bomb)))
	assert.Equal(t, 1, b.CountCells(Exactly(Bomb|Flag)))
	assert.Equal(t, 1, b.CountCells(Exactly(Open)))
	assert.Equal(t, 7, b.CountCells(Exactly(Empty)))
	assert.Equal(t, 9, b.CountCells(Contains(Empty)))
}

func TestOpenBombLoses(t *testing.T) {
	b := newBoard(t, 3, 3, [2]int{1, 1})
	assert.Equal(t, InProgress, b.State())

	require.NoError(t, b.Open(1, 1))

	assert.True(t, b.Lose())
	assert.False(t, b.Win())
	assert.False(t, b.InProgress())
	assert.Equal(t, Lost, b.State())
	assert.Equal(t, 1, b.CountCells(Contains(Open)))
}

func TestOpenNumberedCellDoesNotCascade(t *testing.T) {
	b := newBoard(t, 3, 3, [2]int{1, 1})

	require.NoError(t, b.Open(0, 0))

	assert.Equal(t, 1, b.CountCells(Contains(Open)))
	assert.False(t, b.Lose())
	assert.True(t, b.InProgress())
}

func TestOpenCascadeStopsAtBorder(t *testing.T) {
	// a wall of bombs down the middle column splits the board in two
	b := newBoard(t, 5, 3, [2]int{2, 0}, [2]int{2, 1}, [2]int{2, 2})

	require.NoError(t, b.Open(0, 0))

	for _, c := range b.Cells() {
		if c.X() < 2 {
			assert.True(t, c.IsOpen(), "%s should be open", c)
		} else {
			assert.False(t, c.IsOpen(), "%s should be covered", c)
		}
	}
	assert.False(t, b.Lose())
}

func TestOpenCascadeWins(t *testing.T) {
	b := newBoard(t, 4, 4, [2]int{3, 0})

	require.NoError(t, b.Open(0, 3))

	assert.Equal(t, 15, b.CountCells(Contains(Open)))
	assert.Equal(t, 0, b.CountCells(Contains(Bomb|Open)))
	assert.True(t, b.Win())
	assert.Equal(t, Won, b.State())
}

func TestOpenCascadeNeverOpensBombs(t *testing.T) {
	for seed := range uint64(50) {
		b, err := New(
			Config{Cols: 16, Rows: 16, Bombs: 40, CellSize: 10},
			rand.New(rand.NewPCG(seed, seed)),
		)
		require.NoError(t, err)

		var start *Cell
		for _, c := range b.Cells() {
			if !c.IsBomb() && c.BombNeighbors() == 0 {
				start = c
				break
			}
		}
		if start == nil {
			continue
		}
		start.Open()

		assert.False(t, b.Lose(), "seed %d", seed)
		for _, c := range b.Cells() {
			if !c.IsOpen() || c.BombNeighbors() != 0 {
				continue
			}
			// every open zero cell must have its whole neighborhood open
			for _, n := range c.Neighbors() {
				assert.True(t, n.IsOpen(), "seed %d: %s next to %s", seed, n, c)
			}
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	b := newBoard(t, 3, 3, [2]int{1, 1})
	require.NoError(t, b.Open(0, 0))
	c, _ := b.CellAt(0, 0)
	before := c.Status()

	c.Open()

	assert.Equal(t, before, c.Status())
	assert.Equal(t, 1, b.CountCells(Contains(Open)))
}

func TestWinAfterOpeningAllSafeCells(t *testing.T) {
	b := newBoard(t, 2, 2, [2]int{0, 0})
	safe := [][2]int{{1, 0}, {0, 1}, {1, 1}}

	for i, p := range safe {
		assert.True(t, b.InProgress())
		require.NoError(t, b.Open(p[0], p[1]))
		assert.Equal(t, i+1, b.CountCells(Contains(Open)))
	}

	assert.True(t, b.Win())
	assert.False(t, b.Lose())
	assert.False(t, b.InProgress())
}

func TestOpenAndFlagOutOfBounds(t *testing.T) {
	b := newBoard(t, 2, 2, [2]int{0, 0})
	assert.ErrorIs(t, b.Open(2, 0), ErrOutOfBounds)
	assert.ErrorIs(t, b.Flag(0, -1), ErrOutOfBounds)
}

func TestFlagToggles(t *testing.T) {
	b := newBoard(t, 2, 2, [2]int{0, 0})
	bomb, _ := b.CellAt(0, 0)

	require.NoError(t, b.Flag(0, 0))
	assert.Equal(t, Bomb|Flag, bomb.Status())

	require.NoError(t, b.Flag(0, 0))
	assert.Equal(t, Bomb, bomb.Status())
}

func TestFlagOpenCellPolicy(t *testing.T) {
	b := newBoard(t, 2, 2, [2]int{0, 0})
	require.NoError(t, b.Open(1, 1))
	c, _ := b.CellAt(1, 1)

	c.Flag()
	assert.Equal(t, Open|Flag, c.Status())
	c.Flag()

	b.cfg.LockOpen = true
	c.Flag()
	assert.Equal(t, Open, c.Status())

	covered, _ := b.CellAt(0, 1)
	covered.Flag()
	assert.True(t, covered.IsFlagged())
}

func TestResetAfterGameOver(t *testing.T) {
	b, err := New(Config{Cols: 3, Rows: 3, Bombs: 1, CellSize: 10}, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b.SetDebug(true)

	for _, c := range b.Cells() {
		if c.IsBomb() {
			c.Flag()
			c.Open()
		}
	}
	require.True(t, b.Lose())

	b.Reset()

	assert.True(t, b.InProgress())
	assert.Equal(t, 1, b.CountCells(Contains(Bomb)))
	assert.Equal(t, 0, b.CountCells(Contains(Open)))
	assert.Equal(t, 0, b.CountCells(Contains(Flag)))
	assert.True(t, b.Debug())
}

func TestResetRerollsBombs(t *testing.T) {
	b, err := New(Config{Cols: 9, Rows: 9, Bombs: 10, CellSize: 10}, rand.New(rand.NewPCG(3, 5)))
	require.NoError(t, err)

	layout := func() [][2]int {
		var bombs [][2]int
		for _, c := range b.Cells() {
			if c.IsBomb() {
				bombs = append(bombs, [2]int{c.X(), c.Y()})
			}
		}
		return bombs
	}

	first := layout()
	require.Len(t, first, 10)

	changed := false
	for range 5 {
		b.Reset()
		next := layout()
		require.Len(t, next, 10)
		if !assert.ObjectsAreEqual(first, next) {
			changed = true
		}
	}
	assert.True(t, changed, "bombs stayed at %v after every reset", first)
}

func TestPixelSize(t *testing.T) {
	b, err := New(DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 500, b.Width())
	assert.Equal(t, 375, b.Height())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "in_progress", InProgress.String())
	assert.Equal(t, "won", Won.String())
	assert.Equal(t, "lost", Lost.String())

	text, err := Lost.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lost", string(text))
}
