package vector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Config selects and configures a vector store backend.
type Config struct {
	Backend    string // "embedded" (default) or "sqlite"
	Path       string // database file path, sqlite only
	Dimensions int    // embedding dimensionality
}

// New creates a vector store from the configuration.
func New(cfg Config) (Store, error) {
	if cfg.Dimensions <= 0 {
		return nil, types.NewError(ErrCodeConfigInvalid,
			fmt.Sprintf("dimensions must be positive, got %d", cfg.Dimensions))
	}

	switch cfg.Backend {
	case "embedded", "":
		return NewEmbeddedStore(cfg.Dimensions), nil

	case "sqlite":
		if cfg.Path == "" {
			return nil, types.NewError(ErrCodeConfigInvalid,
				"path is required for the sqlite backend")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, types.WrapError(ErrCodeStoreFailed,
				"failed to create storage directory", err)
		}
		store, err := NewSQLiteStore(SQLiteConfig{
			Path:       cfg.Path,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, types.NewError(ErrCodeConfigInvalid,
			fmt.Sprintf("unknown backend %q, must be embedded or sqlite", cfg.Backend))
	}
}
