package app

import (
	"net/http"
	"slices"
	"strings"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/handlers"
)

type route struct {
	pattern string
	handler http.HandlerFunc
}

// loadRoutes registers every route and returns the HTTP methods they use.
func (a *App) loadRoutes(store Store, cookies *config.Cookies) []string {
	game := handlers.NewGameHandler(
		a.log, a.registry, a.cfg.BoardConfig(), config.NewWebSocket(a.cfg.AllowedOrigins),
	)
	auth := handlers.NewAuth(a.log, store, cookies)
	records := handlers.NewRecords(a.log, store)

	routes := []route{
		{"POST /v1/game", game.NewGame},
		{"GET /v1/game/{id}", game.Fetch},
		{"GET /v1/game/{id}/text", game.Text},
		{"POST /v1/game/{id}/open", game.Open},
		{"POST /v1/game/{id}/flag", game.Flag},
		{"POST /v1/game/{id}/click", game.Click},
		{"POST /v1/game/{id}/reset", game.Reset},
		{"POST /v1/game/{id}/debug", game.ToggleDebug},
		{"GET /v1/game/{id}/press", game.Press},
		{"GET /v1/game/{id}/connect", game.Connect},

		{"POST /v1/register", auth.Register},
		{"POST /v1/login", auth.Login},
		{"POST /v1/logout", auth.Logout},
		{"GET /v1/status", auth.Status},

		{"GET /v1/records", records.List},
		{"GET /v1/myrecords", records.Own},
	}

	var methods []string
	for _, r := range routes {
		a.router.HandleFunc(r.pattern, r.handler)
		if method, _, ok := strings.Cut(r.pattern, " "); ok {
			methods = append(methods, method)
		}
	}
	slices.Sort(methods)
	return slices.Compact(methods)
}
