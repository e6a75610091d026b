package cnab_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/edukids/cobranca-api/internal/cnab"
	"github.com/edukids/cobranca-api/internal/domain"

	"github.com/stretchr/testify/require"
)

// linha builds a well-formed transaction line: "T" + id padded to 16 + code.
func linha(id string, codigo string) string {
	return fmt.Sprintf("T%-16s%s", id, codigo)
}

func TestParseRetorno_ClassificaPagoERejeitado(t *testing.T) {
	conteudo := strings.Join([]string{
		linha("42", "00"),
		linha("43", "07"),
		linha("44", "PG"),
	}, "\n")

	ocorrencias := cnab.ParseRetorno([]byte(conteudo))
	require.Len(t, ocorrencias, 3)

	require.Equal(t, "42", ocorrencias[0].IdentificadorCobranca)
	require.Equal(t, domain.StatusPago, ocorrencias[0].StatusResolvido)

	require.Equal(t, "43", ocorrencias[1].IdentificadorCobranca)
	require.Equal(t, "Rejeitado (07)", ocorrencias[1].StatusResolvido)

	require.Equal(t, domain.StatusPago, ocorrencias[2].StatusResolvido)
}

func TestParseRetorno_IgnoraCabecalhoRodapeEBrancos(t *testing.T) {
	conteudo := strings.Join([]string{
		"H HEADER DO BANCO",
		"",
		"   ",
		linha("42", "00"),
		"9 TRAILER",
	}, "\r\n")

	ocorrencias := cnab.ParseRetorno([]byte(conteudo))
	require.Len(t, ocorrencias, 1)
	require.Equal(t, "42", ocorrencias[0].IdentificadorCobranca)
}

func TestParseRetorno_LinhaCurtaNaoAplicavel(t *testing.T) {
	// Line ends inside the identifier field.
	curta := "T42"
	ocorrencias := cnab.ParseRetorno([]byte(curta))
	require.Len(t, ocorrencias, 1)
	require.False(t, ocorrencias[0].Aplicavel())
	require.Empty(t, ocorrencias[0].CodigoOcorrencia)

	// Marker only: both fields empty.
	ocorrencias = cnab.ParseRetorno([]byte("T"))
	require.Len(t, ocorrencias, 1)
	require.False(t, ocorrencias[0].Aplicavel())
	require.Empty(t, ocorrencias[0].IdentificadorCobranca)
}

func TestParseRetorno_CodigoTruncadoNaoAplicavel(t *testing.T) {
	// 18 chars: full identifier, but only the first char of the
	// occurrence code. The partial "0" must not classify the line.
	truncada := fmt.Sprintf("T%-16s0", "42")
	require.Len(t, truncada, 18)

	ocorrencias := cnab.ParseRetorno([]byte(truncada))
	require.Len(t, ocorrencias, 1)
	require.Equal(t, "42", ocorrencias[0].IdentificadorCobranca)
	require.Empty(t, ocorrencias[0].CodigoOcorrencia)
	require.Empty(t, ocorrencias[0].StatusResolvido)
	require.False(t, ocorrencias[0].Aplicavel())
}

func TestParseRetorno_Deterministico(t *testing.T) {
	conteudo := []byte(linha("42", "00") + "\n" + linha("43", "13"))

	primeira := cnab.ParseRetorno(conteudo)
	segunda := cnab.ParseRetorno(conteudo)
	require.Equal(t, primeira, segunda)
}
