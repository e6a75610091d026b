package domain

// Defaults applied when the configuração row is lazily created.
const (
	ConfiguracaoID          int64 = 1
	ParteFixaNsaPadrao            = "04"
)

// Configuracao is the singleton configuration record. Exactly one row
// exists; it seeds NSA generation for outbound remessa batches.
type Configuracao struct {
	ID                  int64  `json:"id"`
	UltimoNsaSequencial int64  `json:"ultimoNsaSequencial"`
	ParteFixaNsa        string `json:"parteFixaNsa"`
}

// NsaGerado is the result of reserving the next NSA: the formatted
// identifier plus the sequence value it consumed.
type NsaGerado struct {
	Nsa                 string `json:"nsa"`
	UltimoNsaSequencial int64  `json:"ultimoNsaSequencial"`
}
