package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/database"
	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/sessions"
)

// Store is the persistence the server needs. [repository.Queries]
// implements it.
type Store interface {
	handlers.PlayerStore
	handlers.RecordStore
	CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.Record, error)
}

type App struct {
	log      logrus.FieldLogger
	cfg      *config.Config
	router   *http.ServeMux
	registry *sessions.Registry
}

func New(log logrus.FieldLogger, cfg *config.Config) *App {
	return &App{
		log:    log,
		cfg:    cfg,
		router: http.NewServeMux(),
	}
}

// Handler wires the routes and middleware around store.
func (a *App) Handler(store Store, cookies *config.Cookies, opts ...sessions.Option) http.Handler {
	a.registry = sessions.NewRegistry(a.log, recorder{store}, opts...)
	methods := a.loadRoutes(store, cookies)

	return middleware.Wrap(
		a.router,
		middleware.Recover(a.log),
		middleware.Auth(a.log, cookies),
		middleware.Logging(a.log),
		middleware.Cors(a.cfg.AllowedOrigins, methods),
	)
}

// Start connects to the database, serves until ctx is done, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	url, err := a.cfg.Postgres.DbURL()
	if err != nil {
		return fmt.Errorf("unable to build db url: %w", err)
	}
	db, err := database.ConnectAndMigrate(ctx, url)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()

	jwt, err := config.NewJWT(a.cfg.Jwt)
	if err != nil {
		return err
	}
	cookies := config.NewCookies(a.cfg.Domain, a.cfg.Cookies, jwt)

	server := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.Handler(repository.New(db), cookies),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.log.Info("shutting down")
		return server.Shutdown(ctx)
	})
	g.Go(func() error {
		ttl := a.cfg.SessionTTL.Duration
		a.registry.RunPruner(gctx, min(time.Minute, ttl), ttl)
		return nil
	})
	return g.Wait()
}

type recorder struct {
	store Store
}

func (r recorder) Record(ctx context.Context, round sessions.Round) error {
	_, err := r.store.CreateRecord(ctx, repository.CreateRecordParams{
		SessionID: round.SessionID,
		PlayerID:  round.PlayerID,
		Cols:      round.Config.Cols,
		Rows:      round.Config.Rows,
		Bombs:     round.Config.Bombs,
		Won:       round.Won,
		StartedAt: round.StartedAt,
		EndedAt:   round.EndedAt,
	})
	return err
}
