package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/infra/observability"
	"github.com/edukids/cobranca-api/internal/port"
	"github.com/edukids/cobranca-api/internal/service"
)

// Services groups everything the router needs.
type Services struct {
	Clientes     *service.ClientesService
	Cobrancas    *service.CobrancasService
	Configuracao *service.ConfiguracaoService
	Retorno      *service.RetornoService
	Remessa      *service.RemessaService
}

// NewRouter wires all routes and middleware.
func NewRouter(svcs Services, pinger port.Pinger, metrics *observability.Metrics, logger *zap.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler(pinger))
	r.Get("/readyz", readyHandler(pinger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/clientes", func(r chi.Router) {
			r.Get("/", listarClientesHandler(svcs.Clientes, logger))
			r.Post("/", criarClienteHandler(svcs.Clientes, logger))
			r.Put("/{id}", atualizarClienteHandler(svcs.Clientes, logger))
			r.Delete("/{id}", excluirClienteHandler(svcs.Clientes, logger))
		})

		r.Route("/cobrancas", func(r chi.Router) {
			r.Get("/", listarCobrancasHandler(svcs.Cobrancas, logger))
			r.Post("/", criarCobrancaHandler(svcs.Cobrancas, logger))
			r.Put("/{id}", atualizarCobrancaHandler(svcs.Cobrancas, logger))
			r.Delete("/{id}", excluirCobrancaHandler(svcs.Cobrancas, logger))
		})

		r.Get("/config", obterConfiguracaoHandler(svcs.Configuracao, logger))
		r.Put("/config/{id}", atualizarConfiguracaoHandler(svcs.Configuracao, logger))
		r.Post("/proximo-nsa", proximoNsaHandler(svcs.Configuracao, logger))

		r.Post("/marcar-remessa", marcarRemessaHandler(svcs.Remessa, logger))
		r.Post("/processar-retorno", processarRetornoHandler(svcs.Retorno, logger))
		r.Post("/arquivar-remessa", arquivarRemessaHandler(svcs.Remessa, logger))
		r.Get("/listar-arquivos", listarArquivosHandler(svcs.Remessa, logger))
		r.Get("/download-arquivo/{nome}", downloadArquivoHandler(svcs.Remessa, logger))
		r.Get("/metricas-remessa", metricasRemessaHandler(svcs.Remessa))
	})

	return r
}

// healthHandler reports overall health with per-dependency status.
func healthHandler(pinger port.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		dbStatus := "ok"
		code := http.StatusOK
		if err := pinger.Ping(r.Context()); err != nil {
			status = "degraded"
			dbStatus = "unavailable"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]any{
			"status": status,
			"services": map[string]string{
				"postgres": dbStatus,
			},
		})
	}
}

// readyHandler reports readiness by pinging the backing store.
func readyHandler(pinger port.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
