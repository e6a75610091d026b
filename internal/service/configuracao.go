package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/infra/observability"
	"github.com/edukids/cobranca-api/internal/port"
)

const chaveCacheConfiguracao = "configuracao"

// ConfiguracaoService manages the singleton configuração and NSA
// generation. Reads go through a short-lived cache; any write
// invalidates it.
type ConfiguracaoService struct {
	store   port.ConfiguracaoStore
	cache   port.Cache[*domain.Configuracao]
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewConfiguracaoService(store port.ConfiguracaoStore, cache port.Cache[*domain.Configuracao], metrics *observability.Metrics, logger *zap.Logger) *ConfiguracaoService {
	return &ConfiguracaoService{store: store, cache: cache, metrics: metrics, logger: logger}
}

func (s *ConfiguracaoService) Obter(ctx context.Context) (*domain.Configuracao, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("obter_configuracao", time.Since(start)) }()

	if cfg, ok := s.cache.Get(chaveCacheConfiguracao); ok {
		return cfg, nil
	}

	cfg, err := s.store.GetConfiguracao(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(chaveCacheConfiguracao, cfg)
	return cfg, nil
}

func (s *ConfiguracaoService) Atualizar(ctx context.Context, id int64, ultimoNsa int64) (*domain.Configuracao, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("atualizar_configuracao", time.Since(start)) }()

	if ultimoNsa < 0 {
		return nil, &domain.ErrValidation{Field: "ultimoNsaSequencial", Message: "valor não pode ser negativo"}
	}

	cfg, err := s.store.UpdateConfiguracao(ctx, id, ultimoNsa)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(chaveCacheConfiguracao)
	s.logger.Info("configuração atualizada",
		zap.Int64("id", cfg.ID), zap.Int64("ultimoNsaSequencial", cfg.UltimoNsaSequencial))
	return cfg, nil
}

// ProximoNsa reserves the next sequential NSA and returns it formatted
// as parte fixa followed by the six-digit zero-padded sequence.
func (s *ConfiguracaoService) ProximoNsa(ctx context.Context) (*domain.NsaGerado, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("proximo_nsa", time.Since(start)) }()

	cfg, err := s.store.ProximoNsa(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(chaveCacheConfiguracao)

	nsa := fmt.Sprintf("%s%06d", cfg.ParteFixaNsa, cfg.UltimoNsaSequencial)
	s.logger.Info("nsa reservado", zap.String("nsa", nsa))
	return &domain.NsaGerado{Nsa: nsa, UltimoNsaSequencial: cfg.UltimoNsaSequencial}, nil
}
