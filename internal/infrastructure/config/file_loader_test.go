package configinfra

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoader_Path(t *testing.T) {
	loader := NewFileLoader("config")
	assert.Equal(t, filepath.Join("config", "development.json"), loader.Path("development"))
}

func TestFileLoader_Load_PreservesOrderAndRawValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "development.json", `[
		{"name": "FLASK_ENV", "value": "development"},
		{"name": "MONGODB_SETTINGS", "value": {"port": 27017, "host": "db"}},
		{"name": "DEBUG_TB_PANELS", "value": ["a", "b"]},
		{"name": "MISSING_LATER", "value": null}
	]`)

	records, err := NewFileLoader(dir).Load(context.Background(), "development")
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, "FLASK_ENV", records[0].Name)
	assert.JSONEq(t, `"development"`, string(records[0].Value))
	assert.Equal(t, "MONGODB_SETTINGS", records[1].Name)
	assert.Equal(t, `{"port": 27017, "host": "db"}`, string(records[1].Value))
	assert.Equal(t, "DEBUG_TB_PANELS", records[2].Name)
	assert.Equal(t, "null", string(records[3].Value))
}

func TestFileLoader_Load_EmptyArray(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.json", `[]`)

	records, err := NewFileLoader(dir).Load(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileLoader_Load_MissingFile(t *testing.T) {
	_, err := NewFileLoader(t.TempDir()).Load(context.Background(), "production")

	require.Error(t, err)
	assert.True(t, errors.Is(err, configdomain.ErrSourceNotFound))
	assert.True(t, configdomain.IsConfigurationError(err))
}

func TestFileLoader_Load_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `name=value`},
		{"object instead of array", `{"name": "A", "value": 1}`},
		{"null document", `null`},
		{"record without name", `[{"value": 1}]`},
		{"record without value", `[{"name": "A"}]`},
		{"name is not a string", `[{"name": 1, "value": 1}]`},
		{"trailing data", `[] []`},
		{"truncated", `[{"name": "A", "value": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "broken.json", tt.content)

			_, err := NewFileLoader(dir).Load(context.Background(), "broken")

			require.Error(t, err)
			assert.True(t, errors.Is(err, configdomain.ErrSourceMalformed), "got %v", err)
		})
	}
}

func TestFileLoader_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLoader(t.TempDir()).Load(ctx, "development")
	assert.ErrorIs(t, err, context.Canceled)
}
