package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/infra/observability"
)

func newCobrancasService(store *fakeCobrancaStore) *CobrancasService {
	return NewCobrancasService(store, observability.NewMetrics(), zap.NewNop())
}

func TestCriarCobrancaValidaEntrada(t *testing.T) {
	svc := newCobrancasService(newFakeCobrancaStore())

	valida := domain.CobrancaInput{
		ClienteID:  1,
		Descricao:  "mensalidade março",
		Valor:      450,
		Vencimento: "2026-03-10",
	}

	casos := []struct {
		nome    string
		mutacao func(*domain.CobrancaInput)
		campo   string
	}{
		{"sem cliente", func(in *domain.CobrancaInput) { in.ClienteID = 0 }, "clienteId"},
		{"sem descricao", func(in *domain.CobrancaInput) { in.Descricao = " " }, "descricao"},
		{"valor zero", func(in *domain.CobrancaInput) { in.Valor = 0 }, "valor"},
		{"valor negativo", func(in *domain.CobrancaInput) { in.Valor = -10 }, "valor"},
		{"data invalida", func(in *domain.CobrancaInput) { in.Vencimento = "10/03/2026" }, "vencimento"},
	}
	for _, caso := range casos {
		t.Run(caso.nome, func(t *testing.T) {
			input := valida
			caso.mutacao(&input)
			_, err := svc.Criar(context.Background(), &input)
			var ev *domain.ErrValidation
			require.True(t, errors.As(err, &ev))
			require.Equal(t, caso.campo, ev.Field)
		})
	}
}

func TestCriarCobrancaAplicaPadroes(t *testing.T) {
	svc := newCobrancasService(newFakeCobrancaStore())

	cobranca, err := svc.Criar(context.Background(), &domain.CobrancaInput{
		ClienteID:  1,
		Descricao:  "mensalidade março",
		Valor:      450,
		Vencimento: "2026-03-10",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPendente, cobranca.Status)
	require.Equal(t, domain.RemessaNaoEnviada, cobranca.StatusRemessa)
	require.Nil(t, cobranca.NsaRemessa)
}

func TestCriarCobrancaRespeitaStatusInformado(t *testing.T) {
	svc := newCobrancasService(newFakeCobrancaStore())

	cobranca, err := svc.Criar(context.Background(), &domain.CobrancaInput{
		ClienteID:  1,
		Descricao:  "taxa de matrícula",
		Valor:      120,
		Vencimento: "2026-02-01",
		Status:     domain.StatusPago,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPago, cobranca.Status)
}

func TestAtualizarCobrancaInexistente(t *testing.T) {
	svc := newCobrancasService(newFakeCobrancaStore())

	_, err := svc.Atualizar(context.Background(), 42, &domain.CobrancaInput{
		ClienteID:  1,
		Descricao:  "mensalidade",
		Valor:      450,
		Vencimento: "2026-03-10",
	})
	var nf *domain.ErrNotFound
	require.True(t, errors.As(err, &nf))
}

func TestListarCobrancasVazioNaoRetornaNil(t *testing.T) {
	svc := newCobrancasService(newFakeCobrancaStore())

	cobrancas, err := svc.Listar(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cobrancas)
	require.Empty(t, cobrancas)
}
