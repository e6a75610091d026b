package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/edukids/cobranca-api/internal/domain"
)

func criarCobrancaTeste(t *testing.T, router http.Handler, descricao string) domain.Cobranca {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/cobrancas", domain.CobrancaInput{
		ClienteID: 1, Descricao: descricao, Valor: 450, Vencimento: "2026-03-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cobranca: got %d, body %s", rec.Code, rec.Body.String())
	}
	var cob domain.Cobranca
	if err := json.Unmarshal(rec.Body.Bytes(), &cob); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return cob
}

func TestMarcarRemessaEndpoint(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	a := criarCobrancaTeste(t, router, "mensalidade a")
	b := criarCobrancaTeste(t, router, "mensalidade b")

	rec := doJSON(t, router, http.MethodPost, "/api/marcar-remessa", domain.MarcarRemessaInput{
		IDs: []int64{a.ID, b.ID, 9999},
		Nsa: "04000003",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Marcadas int64 `json:"marcadas"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Marcadas != 2 {
		t.Fatalf("got marcadas %d, want 2", resp.Marcadas)
	}

	cobrancas, _ := store.ListCobrancas(context.Background())
	for _, cob := range cobrancas {
		if cob.StatusRemessa != domain.RemessaProcessada {
			t.Fatalf("cobranca %d not marked: %+v", cob.ID, cob)
		}
		if cob.NsaRemessa == nil || *cob.NsaRemessa != "04000003" {
			t.Fatalf("cobranca %d missing nsa: %+v", cob.ID, cob)
		}
	}
}

func TestMarcarRemessaSemIDs(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec := doJSON(t, router, http.MethodPost, "/api/marcar-remessa", domain.MarcarRemessaInput{Nsa: "04000001"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestArquivarRemessaEndpoint(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	a := criarCobrancaTeste(t, router, "mensalidade a")
	b := criarCobrancaTeste(t, router, "mensalidade b")

	rec := doJSON(t, router, http.MethodPost, "/api/arquivar-remessa", domain.ArquivarRemessaInput{
		Cobrancas: []domain.Cobranca{a, b},
		Periodo:   "2026-03",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}

	cobrancas, _ := store.ListCobrancas(context.Background())
	if len(cobrancas) != 0 {
		t.Fatalf("expected empty ledger, got %d", len(cobrancas))
	}
	if len(store.arquivados["2026-03"]) != 2 {
		t.Fatalf("expected 2 archived, got %d", len(store.arquivados["2026-03"]))
	}
}

func TestListarEDownloadArquivos(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	cob := criarCobrancaTeste(t, router, "mensalidade")
	rec := doJSON(t, router, http.MethodPost, "/api/arquivar-remessa", domain.ArquivarRemessaInput{
		Cobrancas: []domain.Cobranca{cob},
		Periodo:   "2026-03",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("arquivar: got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/listar-arquivos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("listar: got %d", rec.Code)
	}
	var nomes []string
	if err := json.Unmarshal(rec.Body.Bytes(), &nomes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(nomes) != 1 || nomes[0] != "remessa_2026-03.json" {
		t.Fatalf("unexpected list: %v", nomes)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/download-arquivo/remessa_2026-03.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "remessa_2026-03.json") {
		t.Fatalf("unexpected disposition: %q", cd)
	}
	if !strings.Contains(rec.Body.String(), `"cobrancas"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDownloadArquivoInexistente(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec := doJSON(t, router, http.MethodGet, "/api/download-arquivo/remessa_2030-01.json", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestMetricasRemessaEndpoint(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	a := criarCobrancaTeste(t, router, "mensalidade")
	rec := doJSON(t, router, http.MethodPost, "/api/marcar-remessa", domain.MarcarRemessaInput{
		IDs: []int64{a.ID}, Nsa: "04000001",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("marcar: got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/metricas-remessa", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var metricas domain.MetricasRemessa
	if err := json.Unmarshal(rec.Body.Bytes(), &metricas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if metricas.CobrancasMarcadas != 1 {
		t.Fatalf("got marcadas %d, want 1", metricas.CobrancasMarcadas)
	}
}
