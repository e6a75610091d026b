package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/edukids/cobranca-api/internal/domain"
)

const cobrancaColumns = `id, cliente_id, descricao, valor, vencimento, status, status_remessa, nsa_remessa`

// scanCobranca reads one cobrança row, converting the DATE column and the
// nullable nsa back to the client-facing representation.
func scanCobranca(row pgx.Row) (*domain.Cobranca, error) {
	var cob domain.Cobranca
	var vencimento pgtype.Date
	var nsa pgtype.Text

	err := row.Scan(&cob.ID, &cob.ClienteID, &cob.Descricao, &cob.Valor,
		&vencimento, &cob.Status, &cob.StatusRemessa, &nsa)
	if err != nil {
		return nil, err
	}

	if vencimento.Valid {
		cob.Vencimento = vencimento.Time.Format("2006-01-02")
	}
	if nsa.Valid {
		cob.NsaRemessa = &nsa.String
	}
	return &cob, nil
}

// CreateCobranca inserts a cobrança and returns the persisted row.
// Status defaults are the caller's responsibility (service layer).
func (c *Client) CreateCobranca(ctx context.Context, input *domain.CobrancaInput) (*domain.Cobranca, error) {
	ctx, span := tracer.Start(ctx, "Postgres.CreateCobranca")
	defer span.End()

	vencimento, err := time.Parse("2006-01-02", input.Vencimento)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "vencimento", Message: "data inválida, use AAAA-MM-DD"}
	}

	query := `
		INSERT INTO cobrancas (cliente_id, descricao, valor, vencimento, status, status_remessa)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + cobrancaColumns

	var cob *domain.Cobranca
	err = c.do(ctx, "create cobranca", func() error {
		row := c.pool.QueryRow(ctx, query,
			input.ClienteID, input.Descricao, input.Valor, vencimento,
			input.Status, domain.RemessaNaoEnviada)
		var scanErr error
		cob, scanErr = scanCobranca(row)
		return scanErr
	})
	if isForeignKeyViolation(err) {
		return nil, &domain.ErrValidation{Field: "clienteId", Message: "cliente inexistente"}
	}
	if err != nil {
		return nil, err
	}
	return cob, nil
}

// UpdateCobranca replaces the mutable fields of a cobrança. The remessa
// markers are deliberately untouched: once set, nsa_remessa is never
// cleared by normal flows.
func (c *Client) UpdateCobranca(ctx context.Context, id int64, input *domain.CobrancaInput) (*domain.Cobranca, error) {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateCobranca")
	defer span.End()

	vencimento, err := time.Parse("2006-01-02", input.Vencimento)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "vencimento", Message: "data inválida, use AAAA-MM-DD"}
	}

	query := `
		UPDATE cobrancas
		SET cliente_id = $2, descricao = $3, valor = $4, vencimento = $5, status = $6
		WHERE id = $1
		RETURNING ` + cobrancaColumns

	var cob *domain.Cobranca
	err = c.queryRow(ctx, "update cobranca", "cobranca", strconv.FormatInt(id, 10), func() error {
		row := c.pool.QueryRow(ctx, query,
			id, input.ClienteID, input.Descricao, input.Valor, vencimento, input.Status)
		var scanErr error
		cob, scanErr = scanCobranca(row)
		return scanErr
	})
	if isForeignKeyViolation(err) {
		return nil, &domain.ErrValidation{Field: "clienteId", Message: "cliente inexistente"}
	}
	if err != nil {
		return nil, err
	}
	return cob, nil
}

// ListCobrancas returns all cobranças ordered by vencimento, newest first.
func (c *Client) ListCobrancas(ctx context.Context) ([]domain.Cobranca, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListCobrancas")
	defer span.End()

	query := `
		SELECT ` + cobrancaColumns + `
		FROM cobrancas
		ORDER BY vencimento DESC`

	var cobrancas []domain.Cobranca
	err := c.do(ctx, "list cobrancas", func() error {
		rows, err := c.pool.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		cobrancas = cobrancas[:0]
		for rows.Next() {
			cob, err := scanCobranca(rows)
			if err != nil {
				return err
			}
			cobrancas = append(cobrancas, *cob)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return cobrancas, nil
}

// DeleteCobranca removes one cobrança.
func (c *Client) DeleteCobranca(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteCobranca")
	defer span.End()

	affected, err := c.exec(ctx, "delete cobranca", `DELETE FROM cobrancas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "cobranca", ID: strconv.FormatInt(id, 10)}
	}
	return nil
}

// UpdateStatusCobranca sets only the status of one cobrança, used by the
// return-file reconciliation.
func (c *Client) UpdateStatusCobranca(ctx context.Context, id int64, status string) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateStatusCobranca")
	defer span.End()

	affected, err := c.exec(ctx, "update status cobranca",
		`UPDATE cobrancas SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "cobranca", ID: strconv.FormatInt(id, 10)}
	}
	return nil
}

// MarcarRemessa stamps the NSA and shipment marker on every existing id
// of the batch in a single statement. Missing ids are skipped; the
// returned count tells the caller how many rows matched.
func (c *Client) MarcarRemessa(ctx context.Context, ids []int64, nsa string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Postgres.MarcarRemessa")
	defer span.End()

	return c.exec(ctx, "marcar remessa",
		`UPDATE cobrancas SET nsa_remessa = $2, status_remessa = $3 WHERE id = ANY($1)`,
		ids, nsa, domain.RemessaProcessada)
}

// DeleteCobrancas removes a batch of cobranças by id, returning how many
// rows were actually deleted.
func (c *Client) DeleteCobrancas(ctx context.Context, ids []int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteCobrancas")
	defer span.End()

	return c.exec(ctx, "delete cobrancas", `DELETE FROM cobrancas WHERE id = ANY($1)`, ids)
}
