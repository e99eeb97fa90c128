package source

import (
	"path/filepath"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// DecodeData decodes a data file into a store. The decoder is chosen by the
// extension of name: .yaml and .yml are YAML, anything else is JSON.
// Top-level keys keep their file order.
func DecodeData(name string, data []byte) (*reactive.Store, error) {
	var (
		store *reactive.Store
		err   error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		store, err = reactive.FromYAML(data)
	default:
		store, err = reactive.FromJSON(data)
	}
	if err != nil {
		return nil, errors.New("E123").WithLocation(name, "").Wrap(err)
	}
	return store, nil
}

// Store decodes the source as a data file.
func (s *Source) Store() (*reactive.Store, error) {
	return DecodeData(s.Name(), s.Data)
}
