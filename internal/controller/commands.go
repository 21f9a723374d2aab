package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("invalid command arguments")
)

// Maps known commands to event kind and number of arguments.
//
//	g        refresh
//	o X Y    open cell     O PX PY  primary click
//	f X Y    flag cell     F PX PY  secondary click
//	r        reset         d        toggle debug reveal
var commands = map[string]struct {
	kind  Kind
	nargs int
}{
	"g": {Refresh, 0},
	"o": {OpenCell, 2},
	"f": {FlagCell, 2},
	"O": {PrimaryClick, 2},
	"F": {SecondaryClick, 2},
	"r": {Reset, 0},
	"d": {ToggleDebug, 0},
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = fmt.Errorf("%w: first argument must be an int", ErrBadArguments)
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = fmt.Errorf("%w: second argument must be an int", ErrBadArguments)
		return
	}
	return
}

func ParseCommand(c string) (Event, error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return Event{}, fmt.Errorf("%w: empty command", ErrUnknownCommand)
	}
	cmd, ok := commands[parts[0]]
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownCommand, parts[0])
	}
	if cmd.nargs != len(parts)-1 {
		return Event{}, fmt.Errorf("%w: %q takes %d arguments, got %d",
			ErrBadArguments, parts[0], cmd.nargs, len(parts)-1)
	}
	ev := Event{Kind: cmd.kind}
	if cmd.nargs == 2 {
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return Event{}, err
		}
		ev.X, ev.Y = x, y
	}
	return ev, nil
}

// Execute runs newline-separated commands in order. Blank lines are
// skipped. It stops at the first command that fails to parse or apply and
// returns the outcomes of the commands applied before it.
func (c *Controller) Execute(script string) ([]Outcome, error) {
	var outcomes []Outcome
	for i, line := range byPiece(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ev, err := ParseCommand(line)
		if err != nil {
			return outcomes, fmt.Errorf("line %d: %w", i+1, err)
		}
		out, err := c.Handle(ev)
		if err != nil {
			return outcomes, fmt.Errorf("line %d: %w", i+1, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
