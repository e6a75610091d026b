package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/service"
)

func listarCobrancasHandler(svc *service.CobrancasService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cobrancas, err := svc.Listar(r.Context())
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, cobrancas)
	}
}

func criarCobrancaHandler(svc *service.CobrancasService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input domain.CobrancaInput
		if err := decodeBody(r, &input); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		cobranca, err := svc.Criar(r.Context(), &input)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, cobranca)
	}
}

func atualizarCobrancaHandler(svc *service.CobrancasService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		var input domain.CobrancaInput
		if err := decodeBody(r, &input); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		cobranca, err := svc.Atualizar(r.Context(), id, &input)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, cobranca)
	}
}

func excluirCobrancaHandler(svc *service.CobrancasService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		if err := svc.Excluir(r.Context(), id); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
