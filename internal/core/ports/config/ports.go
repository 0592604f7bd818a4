package configports

import (
	"context"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
)

// Loader reads the records of a named configuration.
type Loader interface {
	Load(ctx context.Context, name string) ([]configdomain.Record, error)
	Path(name string) string
}

// ComposeResolver locates and inspects the compose file of a named configuration.
type ComposeResolver interface {
	Resolve(name string) (configdomain.ComposeFile, error)
	Path(name string) string
}
