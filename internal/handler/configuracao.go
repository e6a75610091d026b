package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/service"
)

func obterConfiguracaoHandler(svc *service.ConfiguracaoService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Obter(r.Context())
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func atualizarConfiguracaoHandler(svc *service.ConfiguracaoService, logger *zap.Logger) http.HandlerFunc {
	// Pointer so an absent field is distinguishable from an explicit 0.
	type payload struct {
		UltimoNsaSequencial *int64 `json:"ultimoNsaSequencial"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		var body payload
		if err := decodeBody(r, &body); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		if body.UltimoNsaSequencial == nil {
			handleServiceError(w, logger, &domain.ErrValidation{
				Field: "ultimoNsaSequencial", Message: "campo obrigatório",
			})
			return
		}
		cfg, err := svc.Atualizar(r.Context(), id, *body.UltimoNsaSequencial)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func proximoNsaHandler(svc *service.ConfiguracaoService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nsa, err := svc.ProximoNsa(r.Context())
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, nsa)
	}
}
