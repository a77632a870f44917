package team

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Teams []catalogEntry `yaml:"teams"`
}

type catalogEntry struct {
	Abbreviation string            `yaml:"abbreviation"`
	City         string            `yaml:"city"`
	Nickname     string            `yaml:"nickname"`
	Aliases      []string          `yaml:"aliases"`
	Providers    map[string]string `yaml:"providers"`
}

// Catalog returns the embedded reference list of franchises.
func Catalog() ([]Team, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(raw []byte) ([]Team, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode team catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Teams))
	out := make([]Team, 0, len(file.Teams))
	for i, entry := range file.Teams {
		abbr := strings.ToUpper(strings.TrimSpace(entry.Abbreviation))
		if abbr == "" {
			return nil, fmt.Errorf("team catalog entry %d: abbreviation is required", i)
		}
		if _, dup := seen[abbr]; dup {
			return nil, fmt.Errorf("team catalog entry %d: duplicate abbreviation %s", i, abbr)
		}
		seen[abbr] = struct{}{}

		providers := make(map[string]string, len(entry.Providers))
		for provider, id := range entry.Providers {
			providers[strings.ToLower(strings.TrimSpace(provider))] = strings.TrimSpace(id)
		}
		out = append(out, Team{
			ID:           abbr,
			Abbreviation: abbr,
			City:         strings.TrimSpace(entry.City),
			Nickname:     strings.TrimSpace(entry.Nickname),
			Aliases:      entry.Aliases,
			ProviderIDs:  providers,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
