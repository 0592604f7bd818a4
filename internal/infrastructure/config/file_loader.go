package configinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
	configports "github.com/flaskkit/manage/internal/core/ports/config"
)

const configExt = ".json"

// FileLoader reads <dir>/<name>.json files holding an array of
// {"name": ..., "value": ...} records.
type FileLoader struct {
	dir string
}

func NewFileLoader(dir string) *FileLoader { return &FileLoader{dir: dir} }

// Path returns the configuration file path for name.
func (l *FileLoader) Path(name string) string {
	return filepath.Join(l.dir, name+configExt)
}

// Load reads and decodes the records of the named configuration in file order.
func (l *FileLoader) Load(ctx context.Context, name string) ([]configdomain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := l.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", configdomain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("error reading configuration %s: %w", path, err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", configdomain.ErrSourceMalformed, path, err)
	}
	return records, nil
}

// rawRecord distinguishes a missing field from an explicit null.
type rawRecord struct {
	Name  *string         `json:"name"`
	Value json.RawMessage `json:"value"`
}

func decodeRecords(data []byte) ([]configdomain.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var raw []rawRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after the record array")
	}
	if raw == nil {
		return nil, fmt.Errorf("expected an array of records")
	}

	records := make([]configdomain.Record, 0, len(raw))
	for i, r := range raw {
		if r.Name == nil {
			return nil, fmt.Errorf("record %d: missing name", i)
		}
		if r.Value == nil {
			return nil, fmt.Errorf("record %d (%s): missing value", i, *r.Name)
		}
		records = append(records, configdomain.Record{Name: *r.Name, Value: r.Value})
	}
	return records, nil
}

var _ configports.Loader = (*FileLoader)(nil)
