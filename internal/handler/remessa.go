package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/service"
)

// maxRetornoBytes caps the accepted return-file upload size.
const maxRetornoBytes = 10 << 20

func marcarRemessaHandler(svc *service.RemessaService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input domain.MarcarRemessaInput
		if err := decodeBody(r, &input); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		resultado, err := svc.MarcarEnviadas(r.Context(), &input)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   fmt.Sprintf("%d cobrança(s) marcada(s) como enviada(s)", resultado.Afetadas),
			"protocolo": resultado.Protocolo,
			"marcadas":  resultado.Afetadas,
		})
	}
}

func processarRetornoHandler(svc *service.RetornoService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxRetornoBytes); err != nil {
			writeError(w, http.StatusBadRequest, "requisição multipart inválida")
			return
		}
		file, _, err := r.FormFile("arquivoRetorno")
		if err != nil {
			writeError(w, http.StatusBadRequest, "campo 'arquivoRetorno' é obrigatório")
			return
		}
		defer file.Close()

		conteudo, err := io.ReadAll(io.LimitReader(file, maxRetornoBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "falha ao ler o arquivo enviado")
			return
		}

		resumo, err := svc.Processar(r.Context(), conteudo)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"protocolo": resumo.Protocolo,
			"detalhes":  resumo,
		})
	}
}

func arquivarRemessaHandler(svc *service.RemessaService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input domain.ArquivarRemessaInput
		if err := decodeBody(r, &input); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		resultado, err := svc.Arquivar(r.Context(), &input)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   fmt.Sprintf("%d cobrança(s) arquivada(s)", resultado.Afetadas),
			"protocolo": resultado.Protocolo,
			"removidas": resultado.Afetadas,
		})
	}
}

func listarArquivosHandler(svc *service.RemessaService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nomes, err := svc.ListarArquivos(r.Context())
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, nomes)
	}
}

func downloadArquivoHandler(svc *service.RemessaService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nome := chi.URLParam(r, "nome")
		rc, err := svc.AbrirArquivo(r.Context(), nome)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nome))
		if _, err := io.Copy(w, rc); err != nil {
			logger.Warn("falha ao transmitir arquivo", zap.String("arquivo", nome), zap.Error(err))
		}
	}
}

func metricasRemessaHandler(svc *service.RemessaService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Metricas())
	}
}
