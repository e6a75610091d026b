package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/infra/observability"
	"github.com/edukids/cobranca-api/internal/port"
)

// CobrancasService manages the charge ledger.
type CobrancasService struct {
	store   port.CobrancaStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewCobrancasService(store port.CobrancaStore, metrics *observability.Metrics, logger *zap.Logger) *CobrancasService {
	return &CobrancasService{store: store, metrics: metrics, logger: logger}
}

func validarCobranca(input *domain.CobrancaInput) error {
	if input.ClienteID <= 0 {
		return &domain.ErrValidation{Field: "clienteId", Message: "clienteId é obrigatório"}
	}
	if strings.TrimSpace(input.Descricao) == "" {
		return &domain.ErrValidation{Field: "descricao", Message: "descrição é obrigatória"}
	}
	if input.Valor <= 0 {
		return &domain.ErrValidation{Field: "valor", Message: "valor deve ser maior que zero"}
	}
	if _, err := time.Parse("2006-01-02", input.Vencimento); err != nil {
		return &domain.ErrValidation{Field: "vencimento", Message: "data inválida, use AAAA-MM-DD"}
	}
	return nil
}

func (s *CobrancasService) Criar(ctx context.Context, input *domain.CobrancaInput) (*domain.Cobranca, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("criar_cobranca", time.Since(start)) }()

	if err := validarCobranca(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Status) == "" {
		input.Status = domain.StatusPendente
	}

	cobranca, err := s.store.CreateCobranca(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cobrança criada",
		zap.Int64("id", cobranca.ID),
		zap.Int64("clienteId", cobranca.ClienteID),
		zap.Float64("valor", cobranca.Valor))
	return cobranca, nil
}

func (s *CobrancasService) Atualizar(ctx context.Context, id int64, input *domain.CobrancaInput) (*domain.Cobranca, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("atualizar_cobranca", time.Since(start)) }()

	if err := validarCobranca(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Status) == "" {
		input.Status = domain.StatusPendente
	}
	return s.store.UpdateCobranca(ctx, id, input)
}

func (s *CobrancasService) Listar(ctx context.Context) ([]domain.Cobranca, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("listar_cobrancas", time.Since(start)) }()

	cobrancas, err := s.store.ListCobrancas(ctx)
	if err != nil {
		return nil, err
	}
	if cobrancas == nil {
		cobrancas = []domain.Cobranca{}
	}
	return cobrancas, nil
}

func (s *CobrancasService) Excluir(ctx context.Context, id int64) error {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("excluir_cobranca", time.Since(start)) }()

	if err := s.store.DeleteCobranca(ctx, id); err != nil {
		return err
	}
	s.logger.Info("cobrança excluída", zap.Int64("id", id))
	return nil
}
