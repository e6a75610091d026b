// Package service holds the business logic between the HTTP handlers
// and the persistence ports.
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

// ClientesService manages the cliente roster.
type ClientesService struct {
	store   port.ClienteStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewClientesService(store port.ClienteStore, metrics *observability.Metrics, logger *zap.Logger) *ClientesService {
	return &ClientesService{store: store, metrics: metrics, logger: logger}
}

func validarCliente(input *domain.ClienteInput) error {
	if strings.TrimSpace(input.Nome) == "" {
		return &domain.ErrValidation{Field: "nome", Message: "nome é obrigatório"}
	}
	if strings.TrimSpace(input.Codigo) == "" {
		return &domain.ErrValidation{Field: "codigo", Message: "código é obrigatório"}
	}
	return nil
}

func (s *ClientesService) Criar(ctx context.Context, input *domain.ClienteInput) (*domain.Cliente, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("criar_cliente", time.Since(start)) }()

	if err := validarCliente(input); err != nil {
		return nil, err
	}

	cliente, err := s.store.CreateCliente(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cliente criado",
		zap.Int64("id", cliente.ID), zap.String("codigo", cliente.Codigo))
	return cliente, nil
}

func (s *ClientesService) Atualizar(ctx context.Context, id int64, input *domain.ClienteInput) (*domain.Cliente, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("atualizar_cliente", time.Since(start)) }()

	if err := validarCliente(input); err != nil {
		return nil, err
	}
	return s.store.UpdateCliente(ctx, id, input)
}

func (s *ClientesService) Listar(ctx context.Context) ([]domain.Cliente, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("listar_clientes", time.Since(start)) }()

	clientes, err := s.store.ListClientes(ctx)
	if err != nil {
		return nil, err
	}
	if clientes == nil {
		clientes = []domain.Cliente{}
	}
	return clientes, nil
}

func (s *ClientesService) Excluir(ctx context.Context, id int64) error {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("excluir_cliente", time.Since(start)) }()

	if err := s.store.DeleteCliente(ctx, id); err != nil {
		return err
	}
	s.logger.Info("cliente excluído", zap.Int64("id", id))
	return nil
}
