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

func newClientesService(store *fakeClienteStore) *ClientesService {
	return NewClientesService(store, observability.NewMetrics(), zap.NewNop())
}

func TestCriarClienteValidaCamposObrigatorios(t *testing.T) {
	svc := newClientesService(newFakeClienteStore())

	casos := []struct {
		nome  string
		input domain.ClienteInput
		campo string
	}{
		{"sem nome", domain.ClienteInput{Codigo: "C01"}, "nome"},
		{"nome em branco", domain.ClienteInput{Nome: "   ", Codigo: "C01"}, "nome"},
		{"sem codigo", domain.ClienteInput{Nome: "Maria"}, "codigo"},
	}
	for _, caso := range casos {
		t.Run(caso.nome, func(t *testing.T) {
			_, err := svc.Criar(context.Background(), &caso.input)
			var ev *domain.ErrValidation
			require.True(t, errors.As(err, &ev))
			require.Equal(t, caso.campo, ev.Field)
		})
	}
}

func TestCriarEListarClientes(t *testing.T) {
	svc := newClientesService(newFakeClienteStore())

	criado, err := svc.Criar(context.Background(), &domain.ClienteInput{
		Nome:          "Maria Souza",
		Email:         "maria@example.com",
		Codigo:        "C01",
		ContaCorrente: "12345-6",
	})
	require.NoError(t, err)
	require.NotZero(t, criado.ID)

	clientes, err := svc.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, clientes, 1)
	require.Equal(t, "Maria Souza", clientes[0].Nome)
}

func TestListarClientesVazioNaoRetornaNil(t *testing.T) {
	svc := newClientesService(newFakeClienteStore())

	clientes, err := svc.Listar(context.Background())
	require.NoError(t, err)
	require.NotNil(t, clientes)
	require.Empty(t, clientes)
}

func TestAtualizarClienteInexistente(t *testing.T) {
	svc := newClientesService(newFakeClienteStore())

	_, err := svc.Atualizar(context.Background(), 42, &domain.ClienteInput{Nome: "Ana", Codigo: "C02"})
	var nf *domain.ErrNotFound
	require.True(t, errors.As(err, &nf))
}

func TestExcluirCliente(t *testing.T) {
	store := newFakeClienteStore()
	svc := newClientesService(store)

	criado, err := svc.Criar(context.Background(), &domain.ClienteInput{Nome: "Ana", Codigo: "C02"})
	require.NoError(t, err)

	require.NoError(t, svc.Excluir(context.Background(), criado.ID))

	var nf *domain.ErrNotFound
	require.True(t, errors.As(svc.Excluir(context.Background(), criado.ID), &nf))
}
