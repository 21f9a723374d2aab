package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/repository"
)

var (
	ErrBadAuthBody        = fmt.Errorf("%w: request body must contain url-encoded username and password", ErrBadInput)
	ErrBadPasswordTooLong = fmt.Errorf("%w: password too long", ErrBadInput)
	ErrBadCredentials     = errors.New("wrong username or password")
)

type Auth struct {
	log     logrus.FieldLogger
	players PlayerStore
	cookies *config.Cookies
}

func NewAuth(log logrus.FieldLogger, players PlayerStore, cookies *config.Cookies) *Auth {
	return &Auth{
		log:     log,
		players: players,
		cookies: cookies,
	}
}

func credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	return username, password, nil
}

func (a Auth) issue(w http.ResponseWriter, player *repository.Player) {
	claims := config.NewPlayerClaims(player.PlayerID, player.Username)
	if err := a.cookies.Issue(w, claims); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.log.WithError(err).Error("unable to issue cookies")
		return
	}
	sendJSONOrLog(w, a.log, &Status{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerID, player.Username},
	})
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.log, err)
		return
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		sendError(w, a.log, ErrBadPasswordTooLong)
		return
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes, bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.log.WithError(err).Error("unable to hash password")
		return
	}

	player, err := a.players.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		sendError(w, a.log, err)
		return
	}

	a.log.WithField("username", player.Username).Info("player registered")
	a.issue(w, player)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.log, err)
		return
	}

	player, err := a.players.GetPlayer(r.Context(), username)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		sendStatusJSON(w, a.log, http.StatusUnauthorized, wrapError(ErrBadCredentials))
		return
	}
	if err != nil {
		sendError(w, a.log, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password)); err != nil {
		sendStatusJSON(w, a.log, http.StatusUnauthorized, wrapError(ErrBadCredentials))
		return
	}

	a.issue(w, player)
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	sendJSONOrLog(w, a.log, &Status{LoggedIn: false})
}

// Status reports who is logged in and refreshes their cookies.
func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		sendJSONOrLog(w, a.log, &Status{LoggedIn: false})
		return
	}
	a.issue(w, &repository.Player{PlayerID: claims.PlayerId, Username: claims.Username})
}
