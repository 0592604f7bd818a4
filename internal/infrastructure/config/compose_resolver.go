package configinfra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
	configports "github.com/flaskkit/manage/internal/core/ports/config"
)

const composeExt = ".yml"

// ComposeResolver maps a configuration name to <dir>/<name>.yml and checks
// that the file exists and parses before anything is spawned.
type ComposeResolver struct {
	dir string
}

func NewComposeResolver(dir string) *ComposeResolver { return &ComposeResolver{dir: dir} }

// Path returns the compose file path for name.
func (r *ComposeResolver) Path(name string) string {
	return filepath.Join(r.dir, name+composeExt)
}

type composeDocument struct {
	Services map[string]yaml.Node `yaml:"services"`
}

// Resolve returns the compose file for name along with its service names.
func (r *ComposeResolver) Resolve(name string) (configdomain.ComposeFile, error) {
	path := r.Path(name)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return configdomain.ComposeFile{}, fmt.Errorf("%w: %s", configdomain.ErrComposeFileMissing, path)
		}
		return configdomain.ComposeFile{}, fmt.Errorf("error checking compose file %s: %w", path, err)
	}
	if info.IsDir() {
		return configdomain.ComposeFile{}, fmt.Errorf("%w: %s is a directory", configdomain.ErrComposeFileMissing, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return configdomain.ComposeFile{}, fmt.Errorf("error reading compose file %s: %w", path, err)
	}

	var doc composeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return configdomain.ComposeFile{}, fmt.Errorf("%w: %s: %v", configdomain.ErrComposeFileInvalid, path, err)
	}

	services := make([]string, 0, len(doc.Services))
	for svc := range doc.Services {
		services = append(services, svc)
	}
	sort.Strings(services)

	return configdomain.ComposeFile{Path: path, Services: services}, nil
}

var _ configports.ComposeResolver = (*ComposeResolver)(nil)
