package controller

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/view"
)

var ErrGameOver = errors.New("game is over")

type Kind int

const (
	// Refresh changes nothing; clients use it to fetch the current state.
	Refresh Kind = iota
	PrimaryClick
	SecondaryClick
	OpenCell
	FlagCell
	Reset
	ToggleDebug
)

var kindNames = map[Kind]string{
	Refresh:        "refresh",
	PrimaryClick:   "primary_click",
	SecondaryClick: "secondary_click",
	OpenCell:       "open",
	FlagCell:       "flag",
	Reset:          "reset",
	ToggleDebug:    "toggle_debug",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is a discrete input. Clicks carry pixel coordinates, OpenCell and
// FlagCell carry grid coordinates.
type Event struct {
	Kind Kind
	X, Y int
}

func (e Event) String() string {
	switch e.Kind {
	case PrimaryClick, SecondaryClick, OpenCell, FlagCell:
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.X, e.Y)
	default:
		return e.Kind.String()
	}
}

type Outcome struct {
	Event  Event
	Before board.State
	After  board.State
}

func (o Outcome) Changed() bool { return o.Before != o.After }

// Ended reports whether this event finished a game in progress.
func (o Outcome) Ended() bool {
	return o.Before == board.InProgress && o.After != board.InProgress
}

// Buttons is the set of pointer buttons currently held.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Controller translates input events into board operations. Clicks are
// only dispatched while the game is in progress.
type Controller struct {
	board *board.Board
	log   logrus.FieldLogger
}

func New(b *board.Board, log logrus.FieldLogger) *Controller {
	return &Controller{board: b, log: log}
}

func (c *Controller) Board() *board.Board { return c.board }

// CellAtPixel maps a pixel position to the cell under it.
func (c *Controller) CellAtPixel(px, py int) (*board.Cell, bool) {
	if px < 0 || py < 0 {
		return nil, false
	}
	size := c.board.CellSize()
	return c.board.CellAt(px/size, py/size)
}

func (c *Controller) Handle(ev Event) (Outcome, error) {
	out := Outcome{Event: ev, Before: c.board.State()}

	switch ev.Kind {
	case Refresh:
	case Reset:
		c.board.Reset()
	case ToggleDebug:
		c.board.ToggleDebug()
	case PrimaryClick, SecondaryClick, OpenCell, FlagCell:
		if out.Before != board.InProgress {
			return out.settle(c.board), fmt.Errorf("%w: %s", ErrGameOver, out.Before)
		}
		cell, err := c.target(ev)
		if err != nil {
			return out.settle(c.board), err
		}
		if ev.Kind == PrimaryClick || ev.Kind == OpenCell {
			cell.Open()
		} else {
			cell.Flag()
		}
	default:
		return out.settle(c.board), fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}

	out = out.settle(c.board)
	entry := c.log.WithFields(logrus.Fields{
		"event": ev.String(),
		"state": out.After,
	})
	if out.Ended() {
		entry.WithField("status", view.StatusLine(c.board)).Info("game over")
	} else {
		entry.Debug("event handled")
	}
	return out, nil
}

func (o Outcome) settle(b *board.Board) Outcome {
	o.After = b.State()
	return o
}

func (c *Controller) target(ev Event) (*board.Cell, error) {
	var (
		cell *board.Cell
		ok   bool
	)
	if ev.Kind == PrimaryClick || ev.Kind == SecondaryClick {
		cell, ok = c.CellAtPixel(ev.X, ev.Y)
	} else {
		cell, ok = c.board.CellAt(ev.X, ev.Y)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", board.ErrOutOfBounds, ev)
	}
	return cell, nil
}

// Press returns the cells drawn as held down while buttons are pressed over
// (px, py): the cell under the pointer for the primary button, plus its
// neighbors when exactly primary and secondary are held.
func (c *Controller) Press(px, py int, buttons Buttons) []*board.Cell {
	if !c.board.InProgress() || buttons&ButtonPrimary == 0 {
		return nil
	}
	cell, ok := c.CellAtPixel(px, py)
	if !ok {
		return nil
	}
	pressed := []*board.Cell{cell}
	if buttons == ButtonPrimary|ButtonSecondary {
		pressed = append(pressed, cell.Neighbors()...)
	}
	return pressed
}
