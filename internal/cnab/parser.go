// Package cnab parses the fixed-width bank return files (arquivos de
// retorno) that report the outcome of previously remitted cobranças.
package cnab

import (
	"strings"

	"github.com/edukids/cobranca-api/internal/domain"
)

// Layout of a transaction line: the leading marker, then a 16-character
// cobrança identifier, then a 2-character occurrence code.
const (
	marcadorTransacao = 'T'

	inicioIdentificador = 1
	fimIdentificador    = 17
	fimOcorrencia       = 19
)

// ParseRetorno turns the raw bytes of a return file into the sequence of
// reconciliation outcomes, one per transaction line. Lines are separated
// by "\n" or "\r\n"; blank lines and header/trailer records (any line not
// starting with 'T') are skipped.
//
// Parsing is pure: the same content always yields the same outcomes.
// Lines too short to hold a field in full still produce an outcome with
// that field empty, so callers can count them without applying them
// (see domain.OcorrenciaRetorno.Aplicavel). A truncated field never
// yields a partial value.
func ParseRetorno(conteudo []byte) []domain.OcorrenciaRetorno {
	var ocorrencias []domain.OcorrenciaRetorno

	for _, linha := range strings.Split(string(conteudo), "\n") {
		linha = strings.TrimRight(linha, "\r")
		if strings.TrimSpace(linha) == "" {
			continue
		}
		if linha[0] != marcadorTransacao {
			continue
		}

		id := strings.TrimSpace(campo(linha, inicioIdentificador, fimIdentificador))
		codigo := strings.TrimSpace(campo(linha, fimIdentificador, fimOcorrencia))

		ocorrencias = append(ocorrencias, domain.OcorrenciaRetorno{
			IdentificadorCobranca: id,
			CodigoOcorrencia:      codigo,
			StatusResolvido:       classificar(codigo),
		})
	}

	return ocorrencias
}

// campo extracts the [inicio,fim) slice of a line. A line too short to
// hold the whole field yields "", never a partial value: a truncated
// occurrence code must not be mistaken for a real one.
func campo(linha string, inicio, fim int) string {
	if len(linha) < fim {
		return ""
	}
	return linha[inicio:fim]
}

func classificar(codigo string) string {
	switch codigo {
	case "":
		return ""
	case domain.OcorrenciaLiquidacao, domain.OcorrenciaPagamento:
		return domain.StatusPago
	default:
		return domain.StatusRejeitado(codigo)
	}
}
