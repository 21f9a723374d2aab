package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type wsReply struct {
	*GameSessionDTO
	Error string `json:"error,omitempty"`
}

// Connect upgrades to a WebSocket that accepts command scripts, one or more
// newline-separated commands per text message, and answers each message with
// the resulting game state.
func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()
	if g.ws.ReadLimit > 0 {
		c.SetReadLimit(g.ws.ReadLimit)
	}

	log := g.log.WithField("session", session.ID)
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		snapshot, err := session.Execute(r.Context(), text)
		reply := wsReply{GameSessionDTO: NewGameSessionDTO(session, snapshot)}
		if err != nil {
			reply.Error = err.Error()
			log.WithFields(logrus.Fields{"script": text}).WithError(err).Debug("command rejected")
		}
		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Error("unable to write json")
			break
		}
		log.Debug("\t< <session data>")
	}
}
