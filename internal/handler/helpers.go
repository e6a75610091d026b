// Package handler exposes the HTTP surface of the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleServiceError maps domain errors to HTTP status codes. Anything
// unrecognized is a 500 with a generic message; the detail stays in the
// server log.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		validation  *domain.ErrValidation
		notFound    *domain.ErrNotFound
		conflict    *domain.ErrConflict
		circuitOpen *domain.ErrCircuitOpen
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &circuitOpen):
		logger.Warn("circuito aberto", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "serviço temporariamente indisponível")
	default:
		logger.Error("erro interno", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "erro interno do servidor")
	}
}

// pathID extracts the {id} route parameter as an int64.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ErrValidation{Field: "id", Message: "identificador inválido"}
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ErrValidation{Field: "body", Message: "JSON inválido"}
	}
	return nil
}
