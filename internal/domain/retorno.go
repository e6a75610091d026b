package domain

// Bank occurrence codes that settle a cobrança as paid. Any other
// non-empty code is a rejection.
const (
	OcorrenciaLiquidacao = "00"
	OcorrenciaPagamento  = "PG"
)

// OcorrenciaRetorno is one reconciliation outcome extracted from a
// transaction line of a bank return file. It is ephemeral: parsed,
// applied and discarded, never persisted.
type OcorrenciaRetorno struct {
	IdentificadorCobranca string
	CodigoOcorrencia      string
	StatusResolvido       string
}

// Aplicavel reports whether the outcome carries enough data to be
// applied to a cobrança. Short/malformed lines produce outcomes with
// empty fields; those must never reach the store.
func (o OcorrenciaRetorno) Aplicavel() bool {
	return o.IdentificadorCobranca != "" && o.CodigoOcorrencia != ""
}

// ResumoRetorno is the summary tally of a return-file run. Per-line
// failures are counted here, never escalated to a whole-batch failure.
type ResumoRetorno struct {
	Protocolo      string `json:"protocolo"`
	Processed      int    `json:"processed"`
	Paid           int    `json:"paid"`
	Rejected       int    `json:"rejected"`
	UpdateFailures int    `json:"updateFailures"`
}
