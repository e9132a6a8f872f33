// Package application wires configuration into the catalog and service used
// by the server and the CLI.
package application

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
	_ "github.com/JonMunkholm/datalens/internal/core/fields" // Register built-in fields
)

// BuildCatalog returns the built-in catalog, combined with cfg.CatalogFile
// when one is set: extend merges the file's fields into the built-ins by ID,
// replace uses the file alone.
func BuildCatalog(cfg config.MappingConfig) (*core.Catalog, error) {
	base := core.DefaultCatalog()
	if cfg.CatalogFile == "" {
		return base, nil
	}

	f, err := os.Open(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	if cfg.CatalogMode == config.CatalogModeReplace {
		catalog, err := core.LoadCatalog(f)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogFile, err)
		}
		slog.Info("catalog replaced", "file", cfg.CatalogFile, "fields", catalog.Len())
		return catalog, nil
	}

	fields, err := core.DecodeCatalogFields(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogFile, err)
	}
	catalog, err := base.Extend(fields...)
	if err != nil {
		return nil, fmt.Errorf("extend catalog with %s: %w", cfg.CatalogFile, err)
	}
	slog.Info("catalog extended", "file", cfg.CatalogFile, "added", catalog.Len()-base.Len(), "fields", catalog.Len())
	return catalog, nil
}

// NewService builds the pipeline service from cfg. rec may be nil.
func NewService(cfg *config.Config, rec core.Recorder) (*core.Service, error) {
	catalog, err := BuildCatalog(cfg.Mapping)
	if err != nil {
		return nil, err
	}

	match := core.DefaultMatchConfig()
	match.Threshold = cfg.Mapping.Threshold
	match.Workers = cfg.Mapping.Workers

	return core.NewService(core.ServiceConfig{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Match:         match,
		Catalog:       catalog,
		Recorder:      rec,
	}), nil
}
