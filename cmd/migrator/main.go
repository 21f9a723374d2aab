package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/database"
)

func main() {
	var (
		configPath string
		down       bool
	)
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.BoolVar(&down, "down", false, "revert all migrations")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		if err := config.ReadConfig(configPath, cfg); err != nil {
			logrus.Fatalf("unable to read config %s: %s", configPath, err)
		}
	}

	log, err := config.NewLogger(*cfg)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	url, err := cfg.Postgres.DbURL()
	if err != nil {
		log.WithError(err).Fatal("unable to build db url")
	}

	version, dirty, err := database.Migrate(url, down)
	if err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
