package observability

import (
	"time"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Result labels for the return-file line counter.
const (
	LinhaPaga       = "paga"
	LinhaRejeitada  = "rejeitada"
	LinhaFalha      = "falha"
	LinhaMalformada = "malformada"
)

// Operation labels for the remessa batch counter.
const (
	RemessaMarcadas   = "marcadas"
	RemessaArquivadas = "arquivadas"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	storeErrors      *prometheus.CounterVec
	retornoLinhas    *prometheus.CounterVec
	remessaCobrancas *prometheus.CounterVec
	arquivoFalhas    prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cobranca_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cobranca_store_errors_total",
				Help: "Total errors from the Postgres store.",
			},
			[]string{"operation"},
		),
		retornoLinhas: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cobranca_retorno_linhas_total",
				Help: "Return-file transaction lines by outcome.",
			},
			[]string{"resultado"},
		),
		remessaCobrancas: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cobranca_remessa_cobrancas_total",
				Help: "Cobranças touched by remessa batch operations.",
			},
			[]string{"operacao"},
		),
		arquivoFalhas: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cobranca_arquivo_escrita_falhas_total",
				Help: "Archive file writes that failed (best-effort step).",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the store error counter.
func (m *Metrics) IncrStoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

// CountRetornoLinha counts one return-file transaction line by outcome.
func (m *Metrics) CountRetornoLinha(resultado string) {
	m.retornoLinhas.WithLabelValues(resultado).Inc()
}

// CountRemessa adds to the remessa batch counter for an operation
// ("marcadas" or "arquivadas").
func (m *Metrics) CountRemessa(operacao string, n int64) {
	m.remessaCobrancas.WithLabelValues(operacao).Add(float64(n))
}

// IncrArquivoFalha counts a failed archive file write.
func (m *Metrics) IncrArquivoFalha() {
	m.arquivoFalhas.Inc()
}

// GetRemessaSnapshot returns a snapshot of the remittance-cycle counters
// for the GET /api/metricas-remessa endpoint.
// Prometheus counters are cumulative, so these are totals since start.
func (m *Metrics) GetRemessaSnapshot() *domain.MetricasRemessa {
	pagas := getCounterValue(m.retornoLinhas, LinhaPaga)
	rejeitadas := getCounterValue(m.retornoLinhas, LinhaRejeitada)
	falhas := getCounterValue(m.retornoLinhas, LinhaFalha)
	malformadas := getCounterValue(m.retornoLinhas, LinhaMalformada)

	return &domain.MetricasRemessa{
		LinhasProcessadas:    int64(pagas + rejeitadas + malformadas),
		LinhasPagas:          int64(pagas),
		LinhasRejeitadas:     int64(rejeitadas),
		FalhasAtualizacao:    int64(falhas),
		LinhasMalformadas:    int64(malformadas),
		CobrancasMarcadas:    int64(getCounterValue(m.remessaCobrancas, RemessaMarcadas)),
		CobrancasArquivadas:  int64(getCounterValue(m.remessaCobrancas, RemessaArquivadas)),
		FalhasEscritaArquivo: int64(getCounterValueCounter(m.arquivoFalhas)),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getCounterValueCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
