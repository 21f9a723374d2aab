package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type Postgres struct {
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DbName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

func loadPassword() (string, bool, error) {
	password, ok := os.LookupEnv("POSTGRES_PASSWORD")
	if ok {
		return password, true, nil
	}

	passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", false, nil
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", false, fmt.Errorf("unable to read from password file: %w", err)
	}

	return strings.TrimSpace(string(data)), true, nil
}

func (p Postgres) URL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		url.QueryEscape(p.Password),
		p.Host,
		p.Port,
		p.DbName,
		p.SSLMode,
	)
}

// DbURL prefers DATABASE_URL, then the configured connection with the
// password taken from POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE if set.
func (p Postgres) DbURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}

	password, ok, err := loadPassword()
	if err != nil {
		return "", fmt.Errorf("unable to load password: %w", err)
	}
	if ok {
		p.Password = password
	}

	if p.Host == "" || p.DbName == "" {
		return "", fmt.Errorf("no DATABASE_URL set and postgres host or db name missing")
	}

	return p.URL(), nil
}
