package policy

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"searchbridge/internal/searchapi/models"
)

// SeedFile is the on-disk provider policy list.
type SeedFile struct {
	Providers []models.DataProvider `yaml:"providers"`
}

// ParseSeed decodes a policy file, rejecting unknown fields, blank or
// duplicate adaptor names and negative limits.
func ParseSeed(data []byte) ([]models.DataProvider, error) {
	var seed SeedFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	seen := make(map[string]bool, len(seed.Providers))
	for i, p := range seed.Providers {
		if p.AdaptorName == "" {
			return nil, fmt.Errorf("provider %d: adaptor_name is required", i)
		}
		if seen[p.AdaptorName] {
			return nil, fmt.Errorf("provider %s: duplicate adaptor_name", p.AdaptorName)
		}
		seen[p.AdaptorName] = true
		if p.NumberOfDaysToRetry < 0 || p.TimeBetweenRetries < 0 || p.NumberOfRetries < 0 {
			return nil, fmt.Errorf("provider %s: retry limits must not be negative", p.AdaptorName)
		}
	}
	return seed.Providers, nil
}

// LoadSeed reads the policy file at path and upserts every provider in it.
// It returns the number of providers written.
func (c *Catalog) LoadSeed(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read policy file: %w", err)
	}
	providers, err := ParseSeed(data)
	if err != nil {
		return 0, err
	}
	for _, p := range providers {
		if err := c.Upsert(ctx, p); err != nil {
			return 0, err
		}
	}
	c.logger.InfoContext(ctx, "provider policies seeded", "path", path, "providers", len(providers))
	return len(providers), nil
}
