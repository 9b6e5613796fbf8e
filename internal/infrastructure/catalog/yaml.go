package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

// yamlCatalog is the on-disk layout of a catalog file.
type yamlCatalog struct {
	Entries []domain.CatalogEntry `yaml:"entries"`
}

// LoadYAML reads a catalog file of the form:
//
//	entries:
//	  - id: rice-25kg
//	    name: Rice
//	    aliases: [चावल]
//	    unit_price: 1650
func LoadYAML(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes catalog YAML.
func ParseYAML(data []byte) (*Static, error) {
	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return NewStatic(doc.Entries)
}

// SaveYAML writes entries in the format LoadYAML reads.
func SaveYAML(path string, entries []domain.CatalogEntry) error {
	data, err := yaml.Marshal(yamlCatalog{Entries: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
