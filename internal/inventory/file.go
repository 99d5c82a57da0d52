package inventory

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"server-sweep/internal/model"
)

// FileSource reads inventory rows from a YAML (or JSON) file with a
// top-level servers list.
type FileSource struct {
	path   string
	logger zerolog.Logger
}

// fileInventory is the on-disk layout.
type fileInventory struct {
	Servers []model.InventoryRecord `yaml:"servers"`
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string, logger zerolog.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger.With().Str("component", "file-inventory").Logger(),
	}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return "file"
}

// Records reads the file and returns its servers in file order.
func (s *FileSource) Records(ctx context.Context) ([]model.InventoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("%v", err)
	}
	if s.path == "" {
		return nil, unavailable("inventory file path is required")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to read inventory file")
		return nil, unavailable("read inventory file: %v", err)
	}

	var inv fileInventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, unavailable("parse inventory file: %v", err)
	}

	for i, r := range inv.Servers {
		if r.Hostname == "" {
			return nil, unavailable("server at index %d has no hostname", i)
		}
	}

	s.logger.Info().Str("path", s.path).Int("count", len(inv.Servers)).Msg("loaded inventory file")
	return inv.Servers, nil
}
