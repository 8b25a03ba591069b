package source

import (
	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/registry"
)

// RegistryProvider serves units and tests from the example catalog.
type RegistryProvider struct {
	catalog *registry.Catalog
}

// NewRegistryProvider loads the catalog descriptor.
func NewRegistryProvider(descriptorPath, projectRoot string) (*RegistryProvider, error) {
	cat, err := registry.Load(descriptorPath, projectRoot)
	if err != nil {
		return nil, err
	}
	return &RegistryProvider{catalog: cat}, nil
}

// NewRegistryProviderFromCatalog wraps an already loaded catalog.
func NewRegistryProviderFromCatalog(cat *registry.Catalog) *RegistryProvider {
	return &RegistryProvider{catalog: cat}
}

func (p *RegistryProvider) Mode() config.Mode { return config.ModeRegistry }

// Units returns one unit per catalog entry, in catalog order.
func (p *RegistryProvider) Units() ([]SourceUnit, error) {
	entries := p.catalog.Entries()
	units := make([]SourceUnit, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		units = append(units, SourceUnit{
			Text:          e.ContractCode,
			Filename:      e.ContractName + ".sol",
			PreferredName: e.ContractName,
			Origin: &Origin{
				Key:         e.Key,
				Name:        e.Name,
				Category:    e.Category,
				Description: e.Description,
				Walkthrough: e.Documentation,
				Tags:        append([]string(nil), e.Tags...),
			},
		})
	}
	return units, nil
}

// TestTexts returns each entry's test specification bound to its key.
func (p *RegistryProvider) TestTexts() ([]TestText, error) {
	entries := p.catalog.Entries()
	texts := make([]TestText, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		texts = append(texts, TestText{
			Path:        e.ContractName + ".test.ts",
			Text:        e.TestCode,
			RegistryKey: e.Key,
		})
	}
	return texts, nil
}
