package domain

// CatalogEntry is a reference product record. Entries are loaded once per
// session and shared read-only between all match calls.
type CatalogEntry struct {
	ID               string   `json:"id" yaml:"id"`
	CanonicalName    string   `json:"name" yaml:"name"`
	Aliases          []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	UnitPrice        float64  `json:"unitPrice" yaml:"unit_price"`
	PricePerBaseUnit float64  `json:"pricePerBaseUnit,omitempty" yaml:"price_per_base_unit,omitempty"`
	Category         string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Names returns the canonical name followed by every alias.
func (e CatalogEntry) Names() []string {
	names := make([]string, 0, len(e.Aliases)+1)
	names = append(names, e.CanonicalName)
	return append(names, e.Aliases...)
}
