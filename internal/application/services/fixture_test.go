package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/flaskkit/manage/internal/config"
	"github.com/flaskkit/manage/internal/core/domain/process"
	configinfra "github.com/flaskkit/manage/internal/infrastructure/config"
	"github.com/flaskkit/manage/internal/mock"
)

// project is a throwaway directory tree with config/ and docker/ folders.
type project struct {
	configDir string
	dockerDir string
}

func newProject(t *testing.T) *project {
	t.Helper()
	root := t.TempDir()
	p := &project{
		configDir: filepath.Join(root, "config"),
		dockerDir: filepath.Join(root, "docker"),
	}
	require.NoError(t, os.MkdirAll(p.configDir, 0o755))
	require.NoError(t, os.MkdirAll(p.dockerDir, 0o755))
	return p
}

func (p *project) config(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(p.configDir, name+".json"), []byte(content), 0o644))
}

func (p *project) compose(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(p.dockerDir, name+".yml")
	content := "services:\n  db:\n    image: mongo\n  web:\n    build: .\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (p *project) configurator() *ConfigurationService {
	return NewConfigurationService(configinfra.NewFileLoader(p.configDir), nil)
}

func (p *project) launcher(executor *mock.MockExecutor) *LaunchService {
	return NewLaunchService(
		p.configurator(),
		configinfra.NewComposeResolver(p.dockerDir),
		executor,
		config.Defaults(),
		nil,
	)
}

// commandLine matches a process.Command whose full command line equals want.
type commandLine []string

func (m commandLine) Matches(x any) bool {
	cmd, ok := x.(process.Command)
	if !ok {
		return false
	}
	got := cmd.FullCommandLine()
	if len(got) != len(m) {
		return false
	}
	for i := range got {
		if got[i] != m[i] {
			return false
		}
	}
	return true
}

func (m commandLine) String() string {
	return "command line " + strings.Join(m, " ")
}

var _ gomock.Matcher = commandLine(nil)
