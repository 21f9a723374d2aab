package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/app"
	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/config"
)

var (
	configPath string
	bombs      int
	cols       int
	rows       int
	cellSize   int
)

func init() {
	defaults := board.DefaultConfig()

	flag.StringVar(&configPath, "config", "", "config file path")

	intFlag := func(p *int, name, short string, value int, usage string) {
		flag.IntVar(p, name, value, usage)
		flag.IntVar(p, short, value, usage+" (shorthand)")
	}
	intFlag(&bombs, "bombs", "b", defaults.Bombs, "number of bombs")
	intFlag(&cols, "cols", "c", defaults.Cols, "number of columns")
	intFlag(&rows, "rows", "r", defaults.Rows, "number of rows")
	intFlag(&cellSize, "cell", "C", defaults.CellSize, "cell size in pixels")
}

// loadConfig overlays the config file, then any board flag given on the
// command line.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		if err := config.ReadConfig(configPath, cfg); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", configPath, err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bombs", "b":
			cfg.Board.Bombs = bombs
		case "cols", "c":
			cfg.Board.Cols = cols
		case "rows", "r":
			cfg.Board.Rows = rows
		case "cell", "C":
			cfg.Board.CellSize = cellSize
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log, err := config.NewLogger(*cfg)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := app.New(log, cfg).Start(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("bye")
}
