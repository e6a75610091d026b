package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/service"
)

func listarClientesHandler(svc *service.ClientesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientes, err := svc.Listar(r.Context())
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, clientes)
	}
}

func criarClienteHandler(svc *service.ClientesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input domain.ClienteInput
		if err := decodeBody(r, &input); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		cliente, err := svc.Criar(r.Context(), &input)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, cliente)
	}
}

func atualizarClienteHandler(svc *service.ClientesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		var input domain.ClienteInput
		if err := decodeBody(r, &input); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		cliente, err := svc.Atualizar(r.Context(), id, &input)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, cliente)
	}
}

func excluirClienteHandler(svc *service.ClientesService, logger *zap.Logger) http.HandlerFunc {
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
