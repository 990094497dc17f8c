package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedConfig represents the structure of the seed.yaml file.
// Reference data that is easier to curate in YAML than in env vars.
type SeedConfig struct {
	Vocabulary []VocabularySeed `yaml:"vocabulary"`
	Taxonomy   TaxonomySeed     `yaml:"taxonomy"`
}

// VocabularySeed is one abbreviation mapping in the seed file.
type VocabularySeed struct {
	Token      string `yaml:"token"`
	Normalized string `yaml:"normalized"`
	Category   string `yaml:"category,omitempty"`
}

// TaxonomySeed points at a taxonomy file and may list inline entries.
type TaxonomySeed struct {
	File    string   `yaml:"file,omitempty"` // id<TAB>path or bare path per line
	Entries []string `yaml:"entries,omitempty"`
}

// LoadSeedConfig loads the seed file from path.
// Returns nil without error if the file doesn't exist.
func LoadSeedConfig(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Seed file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg SeedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Drop blank rows
	kept := cfg.Vocabulary[:0]
	for _, v := range cfg.Vocabulary {
		if strings.TrimSpace(v.Token) == "" || strings.TrimSpace(v.Normalized) == "" {
			continue
		}
		kept = append(kept, v)
	}
	cfg.Vocabulary = kept

	return &cfg, nil
}

// VocabularyByCategory returns the seeds tagged with category.
func (c *SeedConfig) VocabularyByCategory(category string) []VocabularySeed {
	if c == nil {
		return nil
	}
	var out []VocabularySeed
	for _, v := range c.Vocabulary {
		if strings.EqualFold(v.Category, category) {
			out = append(out, v)
		}
	}
	return out
}
