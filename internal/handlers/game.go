package handlers

import (
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/controller"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/sessions"
)

type GameHandler struct {
	log      logrus.FieldLogger
	sessions *sessions.Registry
	defaults board.Config
	ws       *config.WebSocket
	decoder  *schema.Decoder
}

func NewGameHandler(
	log logrus.FieldLogger,
	registry *sessions.Registry,
	defaults board.Config,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		log:      log,
		sessions: registry,
		defaults: defaults,
		ws:       ws,
		decoder:  newDecoder(),
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	var dto NewGameDTO
	if err := g.decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, g.log, err)
		return
	}

	var playerID *int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		playerID = &claims.PlayerId
	}

	session, err := g.sessions.Create(dto.Apply(g.defaults), playerID)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, session.Snapshot()))
}

func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	session, err := g.sessions.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, err)
		return nil, false
	}
	return session, true
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, session.Snapshot()))
}

func (g GameHandler) handle(w http.ResponseWriter, r *http.Request, ev controller.Event) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}
	snapshot, err := session.Handle(r.Context(), ev)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, snapshot))
}

func (g GameHandler) cellEvent(kind controller.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pos Position
		if err := g.decoder.Decode(&pos, r.URL.Query()); err != nil {
			sendError(w, g.log, err)
			return
		}
		g.handle(w, r, controller.Event{Kind: kind, X: pos.X, Y: pos.Y})
	}
}

func (g GameHandler) Open(w http.ResponseWriter, r *http.Request) {
	g.cellEvent(controller.OpenCell)(w, r)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.cellEvent(controller.FlagCell)(w, r)
}

func (g GameHandler) Click(w http.ResponseWriter, r *http.Request) {
	var dto ClickDTO
	if err := g.decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, g.log, err)
		return
	}
	kind, err := dto.Kind()
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	g.handle(w, r, controller.Event{Kind: kind, X: dto.PX, Y: dto.PY})
}

func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	g.handle(w, r, controller.Event{Kind: controller.Reset})
}

func (g GameHandler) ToggleDebug(w http.ResponseWriter, r *http.Request) {
	g.handle(w, r, controller.Event{Kind: controller.ToggleDebug})
}

func (g GameHandler) Press(w http.ResponseWriter, r *http.Request) {
	var dto PressDTO
	if err := g.decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, g.log, err)
		return
	}
	buttons, err := dto.Held()
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	session, ok := g.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, session.Press(dto.PX, dto.PY, buttons)))
}

// Text renders the board as plain text.
func (g GameHandler) Text(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(session.Snapshot().String())); err != nil {
		g.log.WithError(err).Error("unable to send response")
	}
}
