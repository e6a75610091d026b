// Package postgres is the persistence gateway: it executes parameterized
// statements against PostgreSQL through a pgx pool, guarded by a circuit
// breaker and retry with backoff.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/infra/observability"
	"github.com/edukids/cobranca-api/internal/infra/resilience"
)

var tracer = otel.Tracer("postgres")

// foreignKeyViolation is the PostgreSQL SQLSTATE for FK constraint errors.
const foreignKeyViolation = "23503"

// Client wraps a pgx pool with resilience and error mapping. All stores
// share one Client.
type Client struct {
	pool    *pgxpool.Pool
	cb      *gobreaker.CircuitBreaker
	rcfg    resilience.Config
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewClient connects to the database and verifies connectivity.
func NewClient(ctx context.Context, dsn string, cb *gobreaker.CircuitBreaker, rcfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, &domain.ErrPersistence{Op: "connect", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &domain.ErrPersistence{Op: "ping", Err: err}
	}
	return &Client{pool: pool, cb: cb, rcfg: rcfg, metrics: metrics, logger: logger}, nil
}

// Ping checks store connectivity, for the /health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close releases the pool.
func (c *Client) Close() {
	c.pool.Close()
}

// EnsureSchema creates the tables on startup if they do not exist.
// Internal column names are snake_case; the stores own the mapping to
// the client-facing JSON field names.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS clientes (
		id             BIGSERIAL PRIMARY KEY,
		nome           TEXT NOT NULL,
		email          TEXT NOT NULL DEFAULT '',
		telefone       TEXT NOT NULL DEFAULT '',
		codigo         TEXT NOT NULL,
		conta_corrente TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS cobrancas (
		id             BIGSERIAL PRIMARY KEY,
		cliente_id     BIGINT NOT NULL REFERENCES clientes(id) ON DELETE RESTRICT,
		descricao      TEXT NOT NULL,
		valor          NUMERIC(12,2) NOT NULL,
		vencimento     DATE NOT NULL,
		status         TEXT NOT NULL DEFAULT 'Pendente',
		status_remessa TEXT NOT NULL DEFAULT 'N/A',
		nsa_remessa    TEXT
	);
	CREATE TABLE IF NOT EXISTS configuracao (
		id                    BIGINT PRIMARY KEY,
		ultimo_nsa_sequencial BIGINT NOT NULL DEFAULT 0,
		parte_fixa_nsa        TEXT NOT NULL DEFAULT '04'
	);`

	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return &domain.ErrPersistence{Op: "ensure schema", Err: err}
	}
	return nil
}

// exec runs a statement through the breaker and returns affected rows.
func (c *Client) exec(ctx context.Context, op, sql string, args ...any) (int64, error) {
	var affected int64
	err := c.do(ctx, op, func() error {
		tag, err := c.pool.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	return affected, err
}

// do executes fn under the circuit breaker, retrying transient failures.
// Business errors (no rows, FK violations) are definitive answers from
// the store: they are neither retried nor counted against the breaker,
// and surface raw so the stores can map them. Everything else comes back
// as a persistence error.
func (c *Client) do(ctx context.Context, op string, fn func() error) error {
	var bizErr error
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.rcfg, func() error {
			err := fn()
			if isBusinessError(err) {
				bizErr = err
				return nil
			}
			return err
		})
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.metrics.IncrStoreError(op)
		return &domain.ErrCircuitOpen{Service: "postgres"}
	}
	if err != nil {
		c.metrics.IncrStoreError(op)
		c.logger.Error("store operation failed", zap.String("operation", op), zap.Error(err))
		return &domain.ErrPersistence{Op: op, Err: err}
	}
	return bizErr
}

// queryRow runs fn (which scans a single row) with breaker protection,
// mapping pgx.ErrNoRows to domain.ErrNotFound.
func (c *Client) queryRow(ctx context.Context, op, resource, id string, fn func() error) error {
	err := c.do(ctx, op, fn)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.ErrNotFound{Resource: resource, ID: id}
	}
	return err
}

// isForeignKeyViolation reports whether err is an FK constraint error.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

func isBusinessError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err)
}
