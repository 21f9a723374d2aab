package board

import "fmt"

type Cell struct {
	x, y   int
	status Status
	board  *Board
}

func (c *Cell) X() int { return c.x }

func (c *Cell) Y() int { return c.y }

func (c *Cell) Status() Status { return c.status }

func (c *Cell) IsOpen() bool { return c.status.Has(Open) }

func (c *Cell) IsBomb() bool { return c.status.Has(Bomb) }

func (c *Cell) IsFlagged() bool { return c.status.Has(Flag) }

// Equal compares cells by position only.
func (c *Cell) Equal(other *Cell) bool {
	return other != nil && c.x == other.x && c.y == other.y
}

func (c *Cell) String() string {
	return fmt.Sprintf("(%d,%d) status:%s", c.x, c.y, c.status)
}

// Neighbors returns the in-bounds cells of the 3x3 block around c, excluding
// c itself, in row-major order.
func (c *Cell) Neighbors() []*Cell {
	neighbors := make([]*Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if n, ok := c.board.CellAt(c.x+dx, c.y+dy); ok {
				neighbors = append(neighbors, n)
			}
		}
	}
	return neighbors
}

func (c *Cell) BombNeighbors() int {
	count := 0
	for _, n := range c.Neighbors() {
		if n.IsBomb() {
			count++
		}
	}
	return count
}

// Open uncovers c. Opening a safe cell with no bomb neighbors cascades to
// its neighbors until the region is bordered by numbered cells. Opening an
// open cell does nothing.
func (c *Cell) Open() {
	if c.IsOpen() {
		return
	}
	c.status |= Open

	// cells on the stack are already marked open, so each one is pushed once
	todo := []*Cell{c}
	for len(todo) > 0 {
		cur := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		if cur.IsBomb() || cur.BombNeighbors() != 0 {
			continue
		}
		for _, n := range cur.Neighbors() {
			if !n.IsOpen() {
				n.status |= Open
				todo = append(todo, n)
			}
		}
	}
}

// Flag toggles the flag mark. With [Config.LockOpen] set, open cells keep
// their current mark.
func (c *Cell) Flag() {
	if c.IsOpen() && c.board.cfg.LockOpen {
		return
	}
	c.status ^= Flag
}
