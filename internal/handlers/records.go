package handlers

import (
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/repository"
)

type Records struct {
	log     logrus.FieldLogger
	records RecordStore
	decoder *schema.Decoder
}

func NewRecords(log logrus.FieldLogger, records RecordStore) *Records {
	return &Records{log: log, records: records, decoder: newDecoder()}
}

func (h Records) send(w http.ResponseWriter, r *http.Request, filter repository.RecordFilter) {
	records, err := h.records.ListRecords(r.Context(), filter)
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	if records == nil {
		records = []repository.Record{}
	}
	sendJSONOrLog(w, h.log, records)
}

func (h Records) List(w http.ResponseWriter, r *http.Request) {
	var dto RecordsDTO
	if err := h.decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, h.log, err)
		return
	}
	h.send(w, r, dto.Filter())
}

// Own lists the records of the logged in player.
func (h Records) Own(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var dto RecordsDTO
	if err := h.decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, h.log, err)
		return
	}
	dto.Username = &claims.Username
	h.send(w, r, dto.Filter())
}
