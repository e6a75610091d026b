package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/edukids/cobranca-api/internal/domain"
)

// fakeCobrancaStore is an in-memory, concurrency-safe CobrancaStore.
type fakeCobrancaStore struct {
	mu        sync.Mutex
	proximoID int64
	cobrancas map[int64]domain.Cobranca

	// failStatusUpdates makes every UpdateStatusCobranca call fail.
	failStatusUpdates bool
	// failDelete makes DeleteCobrancas fail.
	failDelete bool

	statusUpdates int
}

func newFakeCobrancaStore() *fakeCobrancaStore {
	return &fakeCobrancaStore{cobrancas: map[int64]domain.Cobranca{}}
}

func (f *fakeCobrancaStore) seed(cob domain.Cobranca) domain.Cobranca {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proximoID++
	cob.ID = f.proximoID
	f.cobrancas[cob.ID] = cob
	return cob
}

func (f *fakeCobrancaStore) CreateCobranca(_ context.Context, input *domain.CobrancaInput) (*domain.Cobranca, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proximoID++
	cob := domain.Cobranca{
		ID:            f.proximoID,
		ClienteID:     input.ClienteID,
		Descricao:     input.Descricao,
		Valor:         input.Valor,
		Vencimento:    input.Vencimento,
		Status:        input.Status,
		StatusRemessa: domain.RemessaNaoEnviada,
	}
	f.cobrancas[cob.ID] = cob
	return &cob, nil
}

func (f *fakeCobrancaStore) UpdateCobranca(_ context.Context, id int64, input *domain.CobrancaInput) (*domain.Cobranca, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cob, ok := f.cobrancas[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "cobranca", ID: strconv.FormatInt(id, 10)}
	}
	cob.ClienteID = input.ClienteID
	cob.Descricao = input.Descricao
	cob.Valor = input.Valor
	cob.Vencimento = input.Vencimento
	cob.Status = input.Status
	f.cobrancas[id] = cob
	return &cob, nil
}

func (f *fakeCobrancaStore) ListCobrancas(_ context.Context) ([]domain.Cobranca, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Cobranca, 0, len(f.cobrancas))
	for _, cob := range f.cobrancas {
		out = append(out, cob)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCobrancaStore) DeleteCobranca(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cobrancas[id]; !ok {
		return &domain.ErrNotFound{Resource: "cobranca", ID: strconv.FormatInt(id, 10)}
	}
	delete(f.cobrancas, id)
	return nil
}

func (f *fakeCobrancaStore) UpdateStatusCobranca(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStatusUpdates {
		return &domain.ErrPersistence{Op: "update status cobranca", Err: errors.New("store indisponível")}
	}
	cob, ok := f.cobrancas[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "cobranca", ID: strconv.FormatInt(id, 10)}
	}
	cob.Status = status
	f.cobrancas[id] = cob
	f.statusUpdates++
	return nil
}

func (f *fakeCobrancaStore) MarcarRemessa(_ context.Context, ids []int64, nsa string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var marcadas int64
	for _, id := range ids {
		cob, ok := f.cobrancas[id]
		if !ok {
			continue
		}
		nsaCopy := nsa
		cob.NsaRemessa = &nsaCopy
		cob.StatusRemessa = domain.RemessaProcessada
		f.cobrancas[id] = cob
		marcadas++
	}
	return marcadas, nil
}

func (f *fakeCobrancaStore) DeleteCobrancas(_ context.Context, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return 0, &domain.ErrPersistence{Op: "delete cobrancas", Err: errors.New("store indisponível")}
	}
	var removidas int64
	for _, id := range ids {
		if _, ok := f.cobrancas[id]; ok {
			delete(f.cobrancas, id)
			removidas++
		}
	}
	return removidas, nil
}

func (f *fakeCobrancaStore) get(id int64) (domain.Cobranca, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cob, ok := f.cobrancas[id]
	return cob, ok
}

// fakeClienteStore is an in-memory ClienteStore.
type fakeClienteStore struct {
	mu        sync.Mutex
	proximoID int64
	clientes  map[int64]domain.Cliente
}

func newFakeClienteStore() *fakeClienteStore {
	return &fakeClienteStore{clientes: map[int64]domain.Cliente{}}
}

func (f *fakeClienteStore) CreateCliente(_ context.Context, input *domain.ClienteInput) (*domain.Cliente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proximoID++
	cliente := domain.Cliente{
		ID:            f.proximoID,
		Nome:          input.Nome,
		Email:         input.Email,
		Telefone:      input.Telefone,
		Codigo:        input.Codigo,
		ContaCorrente: input.ContaCorrente,
	}
	f.clientes[cliente.ID] = cliente
	return &cliente, nil
}

func (f *fakeClienteStore) UpdateCliente(_ context.Context, id int64, input *domain.ClienteInput) (*domain.Cliente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cliente, ok := f.clientes[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "cliente", ID: strconv.FormatInt(id, 10)}
	}
	cliente.Nome = input.Nome
	cliente.Email = input.Email
	cliente.Telefone = input.Telefone
	cliente.Codigo = input.Codigo
	cliente.ContaCorrente = input.ContaCorrente
	f.clientes[id] = cliente
	return &cliente, nil
}

func (f *fakeClienteStore) ListClientes(_ context.Context) ([]domain.Cliente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Cliente, 0, len(f.clientes))
	for _, cliente := range f.clientes {
		out = append(out, cliente)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (f *fakeClienteStore) DeleteCliente(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clientes[id]; !ok {
		return &domain.ErrNotFound{Resource: "cliente", ID: strconv.FormatInt(id, 10)}
	}
	delete(f.clientes, id)
	return nil
}

// fakeConfiguracaoStore mimics the lazy-create singleton behavior.
type fakeConfiguracaoStore struct {
	mu      sync.Mutex
	cfg     *domain.Configuracao
	creates int
	reads   int
}

func (f *fakeConfiguracaoStore) GetConfiguracao(_ context.Context) (*domain.Configuracao, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.cfg == nil {
		f.creates++
		f.cfg = &domain.Configuracao{
			ID:                  domain.ConfiguracaoID,
			UltimoNsaSequencial: 0,
			ParteFixaNsa:        domain.ParteFixaNsaPadrao,
		}
	}
	copia := *f.cfg
	return &copia, nil
}

func (f *fakeConfiguracaoStore) UpdateConfiguracao(_ context.Context, id int64, ultimoNsa int64) (*domain.Configuracao, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cfg == nil || f.cfg.ID != id {
		return nil, &domain.ErrNotFound{Resource: "configuracao", ID: strconv.FormatInt(id, 10)}
	}
	f.cfg.UltimoNsaSequencial = ultimoNsa
	copia := *f.cfg
	return &copia, nil
}

func (f *fakeConfiguracaoStore) ProximoNsa(_ context.Context) (*domain.Configuracao, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cfg == nil {
		f.cfg = &domain.Configuracao{
			ID:                  domain.ConfiguracaoID,
			UltimoNsaSequencial: 0,
			ParteFixaNsa:        domain.ParteFixaNsaPadrao,
		}
	}
	f.cfg.UltimoNsaSequencial++
	copia := *f.cfg
	return &copia, nil
}

// fakeArquivoStore records appended batches in memory.
type fakeArquivoStore struct {
	mu       sync.Mutex
	arquivos map[string][]domain.Cobranca
	fail     bool
}

func newFakeArquivoStore() *fakeArquivoStore {
	return &fakeArquivoStore{arquivos: map[string][]domain.Cobranca{}}
}

func (f *fakeArquivoStore) AppendCobrancas(periodo string, cobrancas []domain.Cobranca) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disco cheio")
	}
	f.arquivos[periodo] = append(f.arquivos[periodo], cobrancas...)
	return nil
}

func (f *fakeArquivoStore) ListArquivos() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nomes := make([]string, 0, len(f.arquivos))
	for periodo := range f.arquivos {
		nomes = append(nomes, "remessa_"+periodo+".json")
	}
	sort.Strings(nomes)
	return nomes, nil
}

func (f *fakeArquivoStore) OpenArquivo(nome string) (io.ReadCloser, error) {
	return nil, &domain.ErrNotFound{Resource: "arquivo", ID: nome}
}
