// Package archive stores period-labelled JSON backups of archived
// cobranças on the local filesystem.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/edukids/cobranca-api/internal/domain"
)

const (
	prefixoArquivo = "remessa_"
	sufixoArquivo  = ".json"
)

// Store writes and reads remessa backup files under a single directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func nomeArquivo(periodo string) string {
	return prefixoArquivo + periodo + sufixoArquivo
}

// AppendCobrancas merges the given cobranças into the period's file,
// creating it when absent. Existing entries are kept, so archiving the
// same period twice accumulates instead of overwriting.
func (s *Store) AppendCobrancas(periodo string, cobrancas []domain.Cobranca) error {
	nome := nomeArquivo(periodo)
	if nome != filepath.Base(nome) {
		return &domain.ErrValidation{Field: "periodo", Message: "período inválido"}
	}
	caminho := filepath.Join(s.dir, nome)

	var doc domain.ArquivoRemessa
	data, err := os.ReadFile(caminho)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err != nil {
			// A corrupt backup must not block archiving: set it aside as
			// <nome>.corrupt for inspection and start fresh.
			if renameErr := os.Rename(caminho, caminho+".corrupt"); renameErr != nil {
				s.logger.Warn("falha ao preservar arquivo corrompido",
					zap.String("arquivo", nome), zap.Error(renameErr))
			}
			s.logger.Warn("arquivo de remessa corrompido, recriando",
				zap.String("arquivo", nome), zap.Error(err))
			doc = domain.ArquivoRemessa{}
		}
	case os.IsNotExist(err):
		// first archive for this period
	default:
		return fmt.Errorf("reading %s: %w", nome, err)
	}

	doc.Cobrancas = append(doc.Cobrancas, cobrancas...)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", nome, err)
	}

	tmp := caminho + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", nome, err)
	}
	if err := os.Rename(tmp, caminho); err != nil {
		return fmt.Errorf("writing %s: %w", nome, err)
	}

	s.logger.Info("cobranças arquivadas",
		zap.String("arquivo", nome), zap.Int("quantidade", len(cobrancas)))
	return nil
}

// ListArquivos returns the backup file names, newest first.
func (s *Store) ListArquivos() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing archive dir: %w", err)
	}

	type arquivo struct {
		nome    string
		modTime int64
	}
	var arquivos []arquivo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		nome := entry.Name()
		if !strings.HasPrefix(nome, prefixoArquivo) || !strings.HasSuffix(nome, sufixoArquivo) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		arquivos = append(arquivos, arquivo{nome: nome, modTime: info.ModTime().UnixNano()})
	}

	sort.Slice(arquivos, func(i, j int) bool {
		if arquivos[i].modTime != arquivos[j].modTime {
			return arquivos[i].modTime > arquivos[j].modTime
		}
		return arquivos[i].nome > arquivos[j].nome
	})

	nomes := make([]string, 0, len(arquivos))
	for _, a := range arquivos {
		nomes = append(nomes, a.nome)
	}
	return nomes, nil
}

// OpenArquivo opens one backup file for download. The name is validated
// against path traversal before touching the filesystem.
func (s *Store) OpenArquivo(nome string) (io.ReadCloser, error) {
	if nome == "" || nome != filepath.Base(nome) ||
		!strings.HasPrefix(nome, prefixoArquivo) || !strings.HasSuffix(nome, sufixoArquivo) {
		return nil, &domain.ErrNotFound{Resource: "arquivo", ID: nome}
	}

	f, err := os.Open(filepath.Join(s.dir, nome))
	if os.IsNotExist(err) {
		return nil, &domain.ErrNotFound{Resource: "arquivo", ID: nome}
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", nome, err)
	}
	return f, nil
}
