package domain

// Cliente is a billing customer (responsável) of the daycare.
type Cliente struct {
	ID            int64  `json:"id"`
	Nome          string `json:"nome"`
	Email         string `json:"email"`
	Telefone      string `json:"telefone"`
	Codigo        string `json:"codigo"`
	ContaCorrente string `json:"contaCorrente"`
}

// ClienteInput is the payload to create or update a cliente.
// Nome and Codigo are required; Codigo is the business identifier
// used by the school, distinct from the server-assigned ID.
type ClienteInput struct {
	Nome          string `json:"nome"`
	Email         string `json:"email"`
	Telefone      string `json:"telefone"`
	Codigo        string `json:"codigo"`
	ContaCorrente string `json:"contaCorrente"`
}
