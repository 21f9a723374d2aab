package board

import "strings"

// Status is a bitmask of independent cell properties. The zero value is a
// covered, unflagged, safe cell.
type Status uint8

const Empty Status = 0

const (
	Open Status = 1 << iota
	Bomb
	Flag
)

// Has reports whether every bit of mask is set in s.
func (s Status) Has(mask Status) bool {
	return s&mask == mask
}

func (s Status) String() string {
	if s == Empty {
		return "empty"
	}
	parts := make([]string, 0, 3)
	if s.Has(Open) {
		parts = append(parts, "open")
	}
	if s.Has(Bomb) {
		parts = append(parts, "bomb")
	}
	if s.Has(Flag) {
		parts = append(parts, "flag")
	}
	return strings.Join(parts, "|")
}

// Matcher selects cells by status in [Board.CountCells].
type Matcher func(Status) bool

// Exactly matches cells whose status equals s bit for bit.
func Exactly(s Status) Matcher {
	return func(status Status) bool {
		return status == s
	}
}

// Contains matches cells whose status has all bits of mask set.
func Contains(mask Status) Matcher {
	return func(status Status) bool {
		return status.Has(mask)
	}
}
