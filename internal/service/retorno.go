package service

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/edukids/cobranca-api/internal/cnab"
	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/infra/observability"
	"github.com/edukids/cobranca-api/internal/infra/resilience"
	"github.com/edukids/cobranca-api/internal/port"
)

// RetornoService reconciles bank return files against the charge ledger.
type RetornoService struct {
	store    port.CobrancaStore
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewRetornoService(store port.CobrancaStore, bulkhead *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) *RetornoService {
	return &RetornoService{store: store, bulkhead: bulkhead, metrics: metrics, logger: logger}
}

// Processar parses a return file and applies each occurrence to its
// cobrança. The run is resilient per line: a cobrança that no longer
// exists, a bad identifier or a store failure counts as an update
// failure and never aborts the batch. Re-running the same file is
// idempotent because the applied statuses are absolute.
//
// When the same identifier appears more than once, only the last
// occurrence in file order is applied; the earlier ones still count as
// processed lines.
func (s *RetornoService) Processar(ctx context.Context, conteudo []byte) (*domain.ResumoRetorno, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("processar_retorno", time.Since(start)) }()

	if len(conteudo) == 0 {
		return nil, &domain.ErrValidation{Field: "arquivoRetorno", Message: "arquivo vazio"}
	}

	protocolo := uuid.New().String()
	ocorrencias := cnab.ParseRetorno(conteudo)

	var paid, rejected, updateFailures atomic.Int64

	aplicaveis := make([]domain.OcorrenciaRetorno, 0, len(ocorrencias))
	ultimaPorID := make(map[string]int)
	for _, oc := range ocorrencias {
		if !oc.Aplicavel() {
			s.metrics.CountRetornoLinha(observability.LinhaMalformada)
			s.logger.Warn("linha de retorno malformada ignorada",
				zap.String("protocolo", protocolo),
				zap.String("identificador", oc.IdentificadorCobranca))
			continue
		}
		if pos, visto := ultimaPorID[oc.IdentificadorCobranca]; visto {
			aplicaveis[pos] = oc
			continue
		}
		ultimaPorID[oc.IdentificadorCobranca] = len(aplicaveis)
		aplicaveis = append(aplicaveis, oc)
	}

	// Updates survive a client that abandons the request mid-run.
	runCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for _, oc := range aplicaveis {
		oc := oc
		g.Go(func() error {
			if err := s.bulkhead.Acquire(runCtx); err != nil {
				updateFailures.Add(1)
				s.metrics.CountRetornoLinha(observability.LinhaFalha)
				return nil
			}
			defer s.bulkhead.Release()

			s.aplicar(runCtx, protocolo, oc, &paid, &rejected, &updateFailures)
			return nil
		})
	}
	g.Wait()

	resumo := &domain.ResumoRetorno{
		Protocolo:      protocolo,
		Processed:      len(ocorrencias),
		Paid:           int(paid.Load()),
		Rejected:       int(rejected.Load()),
		UpdateFailures: int(updateFailures.Load()),
	}

	s.logger.Info("arquivo de retorno processado",
		zap.String("protocolo", protocolo),
		zap.Int("processed", resumo.Processed),
		zap.Int("paid", resumo.Paid),
		zap.Int("rejected", resumo.Rejected),
		zap.Int("updateFailures", resumo.UpdateFailures))
	return resumo, nil
}

func (s *RetornoService) aplicar(ctx context.Context, protocolo string, oc domain.OcorrenciaRetorno, paid, rejected, updateFailures *atomic.Int64) {
	if oc.StatusResolvido == domain.StatusPago {
		paid.Add(1)
		s.metrics.CountRetornoLinha(observability.LinhaPaga)
	} else {
		rejected.Add(1)
		s.metrics.CountRetornoLinha(observability.LinhaRejeitada)
	}

	id, err := strconv.ParseInt(oc.IdentificadorCobranca, 10, 64)
	if err != nil {
		updateFailures.Add(1)
		s.metrics.CountRetornoLinha(observability.LinhaFalha)
		s.logger.Warn("identificador de cobrança inválido no retorno",
			zap.String("protocolo", protocolo),
			zap.String("identificador", oc.IdentificadorCobranca))
		return
	}

	if err := s.store.UpdateStatusCobranca(ctx, id, oc.StatusResolvido); err != nil {
		updateFailures.Add(1)
		s.metrics.CountRetornoLinha(observability.LinhaFalha)

		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			s.logger.Warn("cobrança do retorno não encontrada",
				zap.String("protocolo", protocolo), zap.Int64("id", id))
			return
		}
		s.logger.Error("falha ao atualizar cobrança do retorno",
			zap.String("protocolo", protocolo), zap.Int64("id", id), zap.Error(err))
	}
}
