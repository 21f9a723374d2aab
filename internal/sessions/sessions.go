// Package sessions keeps live games in memory. Each session owns one board
// and serializes every operation on it.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/controller"
	"github.com/vancomm/minesweeper/internal/view"
)

var ErrSessionNotFound = errors.New("session not found")

// Round is a finished game: from creation or the last reset until the
// board was won or lost.
type Round struct {
	SessionID string
	PlayerID  *int64
	Config    board.Config
	Won       bool
	StartedAt time.Time
	EndedAt   time.Time
}

type Recorder interface {
	Record(ctx context.Context, round Round) error
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      logrus.FieldLogger
	recorder Recorder
	newRand  func() board.Intner
	now      func() time.Time
}

type Option func(*Registry)

// WithRand sets the generator factory used for each new board.
func WithRand(newRand func() board.Intner) Option {
	return func(r *Registry) { r.newRand = newRand }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty registry. recorder may be nil, in which case
// finished rounds are only logged.
func NewRegistry(log logrus.FieldLogger, recorder Recorder, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		log:      log,
		recorder: recorder,
		newRand:  func() board.Intner { return board.NewRand() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Create(cfg board.Config, playerID *int64) (*Session, error) {
	b, err := board.New(cfg, r.newRand())
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := r.log.WithField("session", id)
	now := r.now()
	s := &Session{
		ID:        id,
		PlayerID:  playerID,
		registry:  r,
		log:       log,
		ctrl:      controller.New(b, log),
		startedAt: now,
		lastSeen:  now,
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	log.WithFields(cfg.Fields()).Info("session created")
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (r *Registry) Prune(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			pruned++
		}
	}
	return pruned
}

// RunPruner prunes idle sessions every interval until ctx is done.
func (r *Registry) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Prune(maxIdle); n > 0 {
				r.log.WithField("pruned", n).Info("pruned idle sessions")
			}
		}
	}
}

func (r *Registry) record(ctx context.Context, rounds []Round) {
	for _, round := range rounds {
		entry := r.log.WithFields(logrus.Fields{
			"session":  round.SessionID,
			"won":      round.Won,
			"duration": round.EndedAt.Sub(round.StartedAt).String(),
		})
		if r.recorder == nil {
			entry.Debug("round finished")
			continue
		}
		if err := r.recorder.Record(ctx, round); err != nil {
			entry.WithError(err).Error("unable to record round")
			continue
		}
		entry.Debug("round recorded")
	}
}

type Session struct {
	ID       string
	PlayerID *int64

	registry *Registry
	log      logrus.FieldLogger

	mu        sync.Mutex
	ctrl      *controller.Controller
	startedAt time.Time
	lastSeen  time.Time
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

func (s *Session) Snapshot() *view.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.registry.now()
	return view.New(s.ctrl.Board())
}

// Press returns a snapshot with the cells held down by buttons at
// (px, py) drawn pressed.
func (s *Session) Press(px, py int, buttons controller.Buttons) *view.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.registry.now()
	return view.New(s.ctrl.Board(), s.ctrl.Press(px, py, buttons)...)
}

// Handle applies ev and returns the resulting snapshot. The snapshot is
// returned even when ev is rejected.
func (s *Session) Handle(ctx context.Context, ev controller.Event) (*view.Snapshot, error) {
	s.mu.Lock()
	out, err := s.ctrl.Handle(ev)
	var rounds []Round
	if err == nil {
		rounds = s.track(out)
	}
	snapshot := view.New(s.ctrl.Board())
	s.mu.Unlock()

	s.registry.record(ctx, rounds)
	return snapshot, err
}

// Execute runs a command script (see [controller.Controller.Execute]) and
// returns the resulting snapshot.
func (s *Session) Execute(ctx context.Context, script string) (*view.Snapshot, error) {
	s.mu.Lock()
	outcomes, err := s.ctrl.Execute(script)
	rounds := s.track(outcomes...)
	snapshot := view.New(s.ctrl.Board())
	s.mu.Unlock()

	s.registry.record(ctx, rounds)
	return snapshot, err
}

// track must be called with s.mu held.
func (s *Session) track(outcomes ...controller.Outcome) []Round {
	now := s.registry.now()
	s.lastSeen = now

	var rounds []Round
	for _, out := range outcomes {
		if out.Event.Kind == controller.Reset {
			s.startedAt = now
			continue
		}
		if out.Ended() {
			rounds = append(rounds, Round{
				SessionID: s.ID,
				PlayerID:  s.PlayerID,
				Config:    s.ctrl.Board().Config(),
				Won:       out.After == board.Won,
				StartedAt: s.startedAt,
				EndedAt:   now,
			})
		}
	}
	return rounds
}
