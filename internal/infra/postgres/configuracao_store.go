package postgres

import (
	"context"
	"strconv"

	"github.com/edukids/cobranca-api/internal/domain"
)

// GetConfiguracao returns the singleton configuration row, creating it
// with defaults on first access.
func (c *Client) GetConfiguracao(ctx context.Context) (*domain.Configuracao, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetConfiguracao")
	defer span.End()

	insert := `
		INSERT INTO configuracao (id, ultimo_nsa_sequencial, parte_fixa_nsa)
		VALUES ($1, 0, $2)
		ON CONFLICT (id) DO NOTHING`

	query := `
		SELECT id, ultimo_nsa_sequencial, parte_fixa_nsa
		FROM configuracao
		WHERE id = $1`

	var cfg domain.Configuracao
	err := c.do(ctx, "get configuracao", func() error {
		if _, err := c.pool.Exec(ctx, insert, domain.ConfiguracaoID, domain.ParteFixaNsaPadrao); err != nil {
			return err
		}
		row := c.pool.QueryRow(ctx, query, domain.ConfiguracaoID)
		return row.Scan(&cfg.ID, &cfg.UltimoNsaSequencial, &cfg.ParteFixaNsa)
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfiguracao sets the sequential NSA counter on the configuration
// row identified by id.
func (c *Client) UpdateConfiguracao(ctx context.Context, id int64, ultimoNsa int64) (*domain.Configuracao, error) {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateConfiguracao")
	defer span.End()

	query := `
		UPDATE configuracao
		SET ultimo_nsa_sequencial = $2
		WHERE id = $1
		RETURNING id, ultimo_nsa_sequencial, parte_fixa_nsa`

	var cfg domain.Configuracao
	err := c.queryRow(ctx, "update configuracao", "configuracao", strconv.FormatInt(id, 10), func() error {
		row := c.pool.QueryRow(ctx, query, id, ultimoNsa)
		return row.Scan(&cfg.ID, &cfg.UltimoNsaSequencial, &cfg.ParteFixaNsa)
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProximoNsa atomically increments the sequential counter and returns the
// updated configuration. The singleton row is created first if needed so
// the increment never misses.
func (c *Client) ProximoNsa(ctx context.Context) (*domain.Configuracao, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ProximoNsa")
	defer span.End()

	insert := `
		INSERT INTO configuracao (id, ultimo_nsa_sequencial, parte_fixa_nsa)
		VALUES ($1, 0, $2)
		ON CONFLICT (id) DO NOTHING`

	update := `
		UPDATE configuracao
		SET ultimo_nsa_sequencial = ultimo_nsa_sequencial + 1
		WHERE id = $1
		RETURNING id, ultimo_nsa_sequencial, parte_fixa_nsa`

	var cfg domain.Configuracao
	err := c.do(ctx, "proximo nsa", func() error {
		if _, err := c.pool.Exec(ctx, insert, domain.ConfiguracaoID, domain.ParteFixaNsaPadrao); err != nil {
			return err
		}
		row := c.pool.QueryRow(ctx, update, domain.ConfiguracaoID)
		return row.Scan(&cfg.ID, &cfg.UltimoNsaSequencial, &cfg.ParteFixaNsa)
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
