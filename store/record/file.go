package record

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sharelend/core"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileStore reads a batch from a yaml or json file on every fetch, so an
// edited file is picked up by the next reload
type FileStore struct {
	path string
}

// NewFileStore new file store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (*Batch, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}

	var b Batch
	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		err = json.Unmarshal(data, &b)
	} else {
		err = yaml.Unmarshal(data, &b)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", s.path)
	}

	return &b, nil
}

// FetchBatch the file is one ledger slot
func (s *FileStore) FetchBatch(ctx context.Context, group solana.PublicKey, accounts []solana.PublicKey) (*core.RecordBatch, error) {
	b, err := s.load()
	if err != nil {
		return nil, err
	}

	return decodeBatch(b, group, accounts)
}

func (s *FileStore) FetchPrices(ctx context.Context, oracleKeys []solana.PublicKey) (map[solana.PublicKey]core.PriceRecord, error) {
	b, err := s.load()
	if err != nil {
		return nil, err
	}

	return b.PriceMap(oracleKeys)
}

func (s *FileStore) FetchPrice(ctx context.Context, oracleKey solana.PublicKey) (*core.PriceRecord, error) {
	return fetchPrice(ctx, s, oracleKey)
}
