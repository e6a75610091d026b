package domain

import "fmt"

// Charge statuses as exposed to clients. Rejections carry the bank
// occurrence code, e.g. "Rejeitado (07)".
const (
	StatusPendente = "Pendente"
	StatusPago     = "Pago"
)

// StatusRejeitado builds the rejected status for a bank occurrence code.
func StatusRejeitado(codigo string) string {
	return fmt.Sprintf("Rejeitado (%s)", codigo)
}

// Remessa (shipment) markers. A cobrança starts as "N/A" and becomes
// "Processado" once it is included in an outbound remessa batch.
const (
	RemessaNaoEnviada = "N/A"
	RemessaProcessada = "Processado"
)

// Cobranca is a charge/invoice issued against a cliente.
// Vencimento is a calendar date in "2006-01-02" format.
// NsaRemessa is nil until the cobrança is batched; once set it is
// never cleared by normal flows.
type Cobranca struct {
	ID            int64   `json:"id"`
	ClienteID     int64   `json:"clienteId"`
	Descricao     string  `json:"descricao"`
	Valor         float64 `json:"valor"`
	Vencimento    string  `json:"vencimento"`
	Status        string  `json:"status"`
	StatusRemessa string  `json:"statusRemessa"`
	NsaRemessa    *string `json:"nsa_remessa"`
}

// CobrancaInput is the payload to create or update a cobrança.
// Status is optional on create and defaults to Pendente.
type CobrancaInput struct {
	ClienteID  int64   `json:"clienteId"`
	Descricao  string  `json:"descricao"`
	Valor      float64 `json:"valor"`
	Vencimento string  `json:"vencimento"`
	Status     string  `json:"status"`
}
