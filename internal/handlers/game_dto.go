package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/controller"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/sessions"
	"github.com/vancomm/minesweeper/internal/view"
)

var ErrBadInput = errors.New("bad input")

// NewGameDTO overrides the configured board defaults field by field.
type NewGameDTO struct {
	Cols     *int  `schema:"cols"`
	Rows     *int  `schema:"rows"`
	Bombs    *int  `schema:"bombs"`
	CellSize *int  `schema:"cell"`
	LockOpen *bool `schema:"lock_open"`
}

func (dto NewGameDTO) Apply(cfg board.Config) board.Config {
	if dto.Cols != nil {
		cfg.Cols = *dto.Cols
	}
	if dto.Rows != nil {
		cfg.Rows = *dto.Rows
	}
	if dto.Bombs != nil {
		cfg.Bombs = *dto.Bombs
	}
	if dto.CellSize != nil {
		cfg.CellSize = *dto.CellSize
	}
	if dto.LockOpen != nil {
		cfg.LockOpen = *dto.LockOpen
	}
	return cfg
}

type Position struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

type ClickDTO struct {
	PX     int    `schema:"px,required"`
	PY     int    `schema:"py,required"`
	Button string `schema:"button"`
}

func (dto ClickDTO) Kind() (controller.Kind, error) {
	switch strings.ToLower(dto.Button) {
	case "", "primary", "left":
		return controller.PrimaryClick, nil
	case "secondary", "right":
		return controller.SecondaryClick, nil
	default:
		return 0, fmt.Errorf("%w: unknown button %q", ErrBadInput, dto.Button)
	}
}

type PressDTO struct {
	PX      int    `schema:"px,required"`
	PY      int    `schema:"py,required"`
	Buttons string `schema:"buttons"`
}

var buttonNames = map[string]controller.Buttons{
	"primary":   controller.ButtonPrimary,
	"left":      controller.ButtonPrimary,
	"secondary": controller.ButtonSecondary,
	"right":     controller.ButtonSecondary,
	"middle":    controller.ButtonMiddle,
}

// Held parses a comma-separated button list. An empty list means the
// primary button alone.
func (dto PressDTO) Held() (controller.Buttons, error) {
	if strings.TrimSpace(dto.Buttons) == "" {
		return controller.ButtonPrimary, nil
	}
	var held controller.Buttons
	for _, name := range strings.Split(dto.Buttons, ",") {
		b, ok := buttonNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("%w: unknown button %q", ErrBadInput, name)
		}
		held |= b
	}
	return held, nil
}

type RecordsDTO struct {
	Username *string `schema:"username"`
	Cols     *int    `schema:"cols"`
	Rows     *int    `schema:"rows"`
	Bombs    *int    `schema:"bombs"`
	Won      *bool   `schema:"won"`
	Limit    int     `schema:"limit"`
}

func (dto RecordsDTO) Filter() repository.RecordFilter {
	return repository.RecordFilter(dto)
}

type GameSessionDTO struct {
	SessionID string `json:"session_id"`
	StartedAt int64  `json:"started_at"`
	*view.Snapshot
}

func NewGameSessionDTO(s *sessions.Session, snapshot *view.Snapshot) *GameSessionDTO {
	return &GameSessionDTO{
		SessionID: s.ID,
		StartedAt: s.StartedAt().UnixMilli(),
		Snapshot:  snapshot,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}
