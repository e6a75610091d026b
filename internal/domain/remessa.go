package domain

// MarcarRemessaInput is the payload to mark a batch of cobranças as
// shipped under a single NSA.
type MarcarRemessaInput struct {
	IDs []int64 `json:"ids"`
	Nsa string  `json:"nsa"`
}

// ArquivarRemessaInput carries the full cobrança snapshots to archive
// (already fetched by the caller) and the period label that names the
// archive file.
type ArquivarRemessaInput struct {
	Cobrancas []Cobranca `json:"cobrancas"`
	Periodo   string     `json:"periodo"`
}

// ResultadoRemessa reports a batch operation: the run's protocolo (for
// correlating the response with server logs) and how many cobranças it
// touched.
type ResultadoRemessa struct {
	Protocolo string `json:"protocolo"`
	Afetadas  int64  `json:"afetadas"`
}

// ArquivoRemessa is the on-disk shape of a period archive file.
type ArquivoRemessa struct {
	Cobrancas []Cobranca `json:"cobrancas"`
}

// MetricasRemessa is the JSON snapshot of the remittance-cycle counters
// served by GET /api/metricas-remessa.
type MetricasRemessa struct {
	LinhasProcessadas    int64 `json:"linhasProcessadas"`
	LinhasPagas          int64 `json:"linhasPagas"`
	LinhasRejeitadas     int64 `json:"linhasRejeitadas"`
	FalhasAtualizacao    int64 `json:"falhasAtualizacao"`
	LinhasMalformadas    int64 `json:"linhasMalformadas"`
	CobrancasMarcadas    int64 `json:"cobrancasMarcadas"`
	CobrancasArquivadas  int64 `json:"cobrancasArquivadas"`
	FalhasEscritaArquivo int64 `json:"falhasEscritaArquivo"`
}
