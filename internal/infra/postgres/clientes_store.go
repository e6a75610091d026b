package postgres

import (
	"context"
	"strconv"

	"github.com/edukids/cobranca-api/internal/domain"
)

// CreateCliente inserts a cliente and returns the persisted row,
// server-assigned id included.
func (c *Client) CreateCliente(ctx context.Context, input *domain.ClienteInput) (*domain.Cliente, error) {
	ctx, span := tracer.Start(ctx, "Postgres.CreateCliente")
	defer span.End()

	query := `
		INSERT INTO clientes (nome, email, telefone, codigo, conta_corrente)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, nome, email, telefone, codigo, conta_corrente`

	var cl domain.Cliente
	err := c.do(ctx, "create cliente", func() error {
		return c.pool.QueryRow(ctx, query,
			input.Nome, input.Email, input.Telefone, input.Codigo, input.ContaCorrente,
		).Scan(&cl.ID, &cl.Nome, &cl.Email, &cl.Telefone, &cl.Codigo, &cl.ContaCorrente)
	})
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// UpdateCliente replaces the mutable fields of a cliente.
func (c *Client) UpdateCliente(ctx context.Context, id int64, input *domain.ClienteInput) (*domain.Cliente, error) {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateCliente")
	defer span.End()

	query := `
		UPDATE clientes
		SET nome = $2, email = $3, telefone = $4, codigo = $5, conta_corrente = $6
		WHERE id = $1
		RETURNING id, nome, email, telefone, codigo, conta_corrente`

	var cl domain.Cliente
	err := c.queryRow(ctx, "update cliente", "cliente", strconv.FormatInt(id, 10), func() error {
		return c.pool.QueryRow(ctx, query,
			id, input.Nome, input.Email, input.Telefone, input.Codigo, input.ContaCorrente,
		).Scan(&cl.ID, &cl.Nome, &cl.Email, &cl.Telefone, &cl.Codigo, &cl.ContaCorrente)
	})
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// ListClientes returns all clientes ordered by nome.
func (c *Client) ListClientes(ctx context.Context) ([]domain.Cliente, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListClientes")
	defer span.End()

	query := `
		SELECT id, nome, email, telefone, codigo, conta_corrente
		FROM clientes
		ORDER BY nome ASC`

	var clientes []domain.Cliente
	err := c.do(ctx, "list clientes", func() error {
		rows, err := c.pool.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		clientes = clientes[:0]
		for rows.Next() {
			var cl domain.Cliente
			if err := rows.Scan(&cl.ID, &cl.Nome, &cl.Email, &cl.Telefone, &cl.Codigo, &cl.ContaCorrente); err != nil {
				return err
			}
			clientes = append(clientes, cl)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return clientes, nil
}

// DeleteCliente removes a cliente. Deletion is restricted: a cliente
// still referenced by cobranças yields domain.ErrConflict.
func (c *Client) DeleteCliente(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteCliente")
	defer span.End()

	affected, err := c.exec(ctx, "delete cliente", `DELETE FROM clientes WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return &domain.ErrConflict{Message: "cliente possui cobranças vinculadas"}
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "cliente", ID: strconv.FormatInt(id, 10)}
	}
	return nil
}
