// Package handlers serves the game, auth and records endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/controller"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/sessions"
)

type PlayerStore interface {
	CreatePlayer(ctx context.Context, params repository.CreatePlayerParams) (*repository.Player, error)
	GetPlayer(ctx context.Context, username string) (*repository.Player, error)
}

type RecordStore interface {
	ListRecords(ctx context.Context, filter repository.RecordFilter) ([]repository.Record, error)
}

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		log.WithError(err).Error("unable to send response")
	}
}

func sendStatusJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to encode response")
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		w.WriteHeader(status)
		return
	}
	sendStatusJSON(w, log, status, wrapError(err))
}

func statusFor(err error) int {
	var multi schema.MultiError
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, controller.ErrGameOver),
		errors.Is(err, repository.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, board.ErrOutOfBounds),
		errors.Is(err, board.ErrInvalidConfig),
		errors.Is(err, controller.ErrUnknownCommand),
		errors.Is(err, controller.ErrBadArguments),
		errors.Is(err, ErrBadInput),
		errors.As(err, &multi):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
