// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service
// layer from the Postgres and filesystem adapters.
package port

import (
	"context"
	"io"

	"github.com/edukids/cobranca-api/internal/domain"
)

// ClienteStore persists clientes.
type ClienteStore interface {
	CreateCliente(ctx context.Context, input *domain.ClienteInput) (*domain.Cliente, error)
	UpdateCliente(ctx context.Context, id int64, input *domain.ClienteInput) (*domain.Cliente, error)
	ListClientes(ctx context.Context) ([]domain.Cliente, error)
	DeleteCliente(ctx context.Context, id int64) error
}

// CobrancaStore persists cobranças, including the remessa batch
// operations used by the remittance cycle.
type CobrancaStore interface {
	CreateCobranca(ctx context.Context, input *domain.CobrancaInput) (*domain.Cobranca, error)
	UpdateCobranca(ctx context.Context, id int64, input *domain.CobrancaInput) (*domain.Cobranca, error)
	ListCobrancas(ctx context.Context) ([]domain.Cobranca, error)
	DeleteCobranca(ctx context.Context, id int64) error

	// UpdateStatusCobranca sets only the status of one cobrança.
	// Returns domain.ErrNotFound when the id does not exist.
	UpdateStatusCobranca(ctx context.Context, id int64, status string) error

	// MarcarRemessa stamps nsa/statusRemessa on every existing id in the
	// set, in one statement, and returns how many rows matched.
	MarcarRemessa(ctx context.Context, ids []int64, nsa string) (int64, error)

	// DeleteCobrancas removes the given ids and returns how many rows
	// were deleted. Missing ids are skipped, not errors.
	DeleteCobrancas(ctx context.Context, ids []int64) (int64, error)
}

// ConfiguracaoStore persists the singleton configuração record.
type ConfiguracaoStore interface {
	// GetConfiguracao returns the configuração, lazily creating it with
	// defaults on first read. The create-if-absent is atomic.
	GetConfiguracao(ctx context.Context) (*domain.Configuracao, error)
	UpdateConfiguracao(ctx context.Context, id int64, ultimoNsa int64) (*domain.Configuracao, error)

	// ProximoNsa atomically increments the sequence counter and returns
	// the updated configuração.
	ProximoNsa(ctx context.Context) (*domain.Configuracao, error)
}

// ArquivoStore keeps the period-labelled JSON backups of archived
// cobranças. It is a convenience backup, not the system of record.
type ArquivoStore interface {
	AppendCobrancas(periodo string, cobrancas []domain.Cobranca) error
	ListArquivos() ([]string, error)
	OpenArquivo(nome string) (io.ReadCloser, error)
}

// Pinger checks connectivity with the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
