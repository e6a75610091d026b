package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/infra/observability"
	"github.com/edukids/cobranca-api/internal/port"
)

// RemessaService handles the outbound remittance batch cycle: marking
// cobranças as shipped, archiving them at end of period and serving the
// archive files.
type RemessaService struct {
	cobrancas port.CobrancaStore
	arquivos  port.ArquivoStore
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func NewRemessaService(cobrancas port.CobrancaStore, arquivos port.ArquivoStore, metrics *observability.Metrics, logger *zap.Logger) *RemessaService {
	return &RemessaService{cobrancas: cobrancas, arquivos: arquivos, metrics: metrics, logger: logger}
}

// MarcarEnviadas stamps the NSA on every existing cobrança of the batch
// and reports how many were actually marked. Ids missing from the
// ledger are skipped silently.
func (s *RemessaService) MarcarEnviadas(ctx context.Context, input *domain.MarcarRemessaInput) (*domain.ResultadoRemessa, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("marcar_remessa", time.Since(start)) }()

	if len(input.IDs) == 0 {
		return nil, &domain.ErrValidation{Field: "ids", Message: "informe ao menos uma cobrança"}
	}
	if strings.TrimSpace(input.Nsa) == "" {
		return nil, &domain.ErrValidation{Field: "nsa", Message: "nsa é obrigatório"}
	}

	protocolo := uuid.New().String()

	marcadas, err := s.cobrancas.MarcarRemessa(ctx, input.IDs, input.Nsa)
	if err != nil {
		return nil, err
	}

	s.metrics.CountRemessa(observability.RemessaMarcadas, marcadas)
	s.logger.Info("cobranças marcadas como enviadas",
		zap.String("protocolo", protocolo),
		zap.String("nsa", input.Nsa),
		zap.Int("solicitadas", len(input.IDs)),
		zap.Int64("marcadas", marcadas))
	return &domain.ResultadoRemessa{Protocolo: protocolo, Afetadas: marcadas}, nil
}

// Arquivar backs the cobranças up into the period's JSON file and then
// removes them from the ledger. The backup is best effort: a write
// failure is logged and counted but never blocks the removal. The
// removal is authoritative: its error propagates to the caller.
func (s *RemessaService) Arquivar(ctx context.Context, input *domain.ArquivarRemessaInput) (*domain.ResultadoRemessa, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("arquivar_remessa", time.Since(start)) }()

	if len(input.Cobrancas) == 0 {
		return nil, &domain.ErrValidation{Field: "cobrancas", Message: "informe ao menos uma cobrança"}
	}
	if strings.TrimSpace(input.Periodo) == "" {
		return nil, &domain.ErrValidation{Field: "periodo", Message: "período é obrigatório"}
	}

	protocolo := uuid.New().String()

	if err := s.arquivos.AppendCobrancas(input.Periodo, input.Cobrancas); err != nil {
		s.metrics.IncrArquivoFalha()
		s.logger.Error("falha ao gravar arquivo de remessa, prosseguindo com a remoção",
			zap.String("protocolo", protocolo),
			zap.String("periodo", input.Periodo),
			zap.Error(err))
	}

	ids := make([]int64, 0, len(input.Cobrancas))
	for _, cob := range input.Cobrancas {
		ids = append(ids, cob.ID)
	}

	removidas, err := s.cobrancas.DeleteCobrancas(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("removendo cobranças arquivadas (%d ids): %w", len(ids), err)
	}

	s.metrics.CountRemessa(observability.RemessaArquivadas, removidas)
	s.logger.Info("cobranças arquivadas e removidas",
		zap.String("protocolo", protocolo),
		zap.String("periodo", input.Periodo),
		zap.Int64("removidas", removidas))
	return &domain.ResultadoRemessa{Protocolo: protocolo, Afetadas: removidas}, nil
}

func (s *RemessaService) ListarArquivos(ctx context.Context) ([]string, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("listar_arquivos", time.Since(start)) }()

	nomes, err := s.arquivos.ListArquivos()
	if err != nil {
		return nil, err
	}
	if nomes == nil {
		nomes = []string{}
	}
	return nomes, nil
}

func (s *RemessaService) AbrirArquivo(ctx context.Context, nome string) (io.ReadCloser, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("download_arquivo", time.Since(start)) }()

	return s.arquivos.OpenArquivo(nome)
}

// Metricas returns the live remittance-cycle counters.
func (s *RemessaService) Metricas() *domain.MetricasRemessa {
	return s.metrics.GetRemessaSnapshot()
}
