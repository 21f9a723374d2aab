package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/board"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type Board struct {
	Cols     int  `json:"cols"`
	Rows     int  `json:"rows"`
	Bombs    int  `json:"bombs"`
	CellSize int  `json:"cell_size"`
	LockOpen bool `json:"lock_open"`
}

type Log struct {
	File       string `json:"file"`
	MaxSize    int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age_days"`
}

type Config struct {
	Mode       string   `json:"mode"`
	Addr       string   `json:"addr"`
	Domain     string   `json:"domain"`
	SessionTTL Duration `json:"session_ttl"`
	Board      Board    `json:"board"`
	Log        Log      `json:"log"`
	Postgres   Postgres `json:"postgres"`
	Jwt        Jwt      `json:"jwt"`
	Cookies    Cookie   `json:"cookies"`

	// AllowedOrigins restricts CORS and WebSocket origins. Empty allows any.
	AllowedOrigins []string `json:"allowed_origins"`
}

// Default is the configuration used when no config file is given.
func Default() *Config {
	b := board.DefaultConfig()
	return &Config{
		Mode:       "development",
		Addr:       ":8080",
		Domain:     "localhost",
		SessionTTL: Duration{time.Hour},
		Board: Board{
			Cols:     b.Cols,
			Rows:     b.Rows,
			Bombs:    b.Bombs,
			CellSize: b.CellSize,
		},
		Log: Log{MaxSize: 50, MaxBackups: 3, MaxAge: 28},
		Postgres: Postgres{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DbName:  "minesweeper",
			SSLMode: "disable",
		},
		Jwt: Jwt{
			TokenLifetime: Duration{30 * 24 * time.Hour},
		},
		Cookies: Cookie{SameSite: "strict"},
	}
}

// ReadConfig overlays the JSON file at path onto config.
func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

func (c Config) BoardConfig() board.Config {
	return board.Config(c.Board)
}

func (c Config) Validate() error {
	if err := c.BoardConfig().Validate(); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if c.SessionTTL.Duration <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                 c.Mode,
		"addr":                 c.Addr,
		"domain":               c.Domain,
		"allowed_origins":      c.AllowedOrigins,
		"session_ttl":          c.SessionTTL.String(),
		"board_cols":           c.Board.Cols,
		"board_rows":           c.Board.Rows,
		"board_bombs":          c.Board.Bombs,
		"board_cell_size":      c.Board.CellSize,
		"board_lock_open":      c.Board.LockOpen,
		"log_file":             c.Log.File,
		"pg_host":              c.Postgres.Host,
		"pg_port":              c.Postgres.Port,
		"pg_user":              c.Postgres.User,
		"pg_db_name":           c.Postgres.DbName,
		"jwt_token_lifetime":   c.Jwt.TokenLifetime.Duration.String(),
		"jwt_private_key_path": c.Jwt.PrivateKeyPath,
		"jwt_public_key_path":  c.Jwt.PublicKeyPath,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}
