// config/overlay.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type AggregatorsFile struct {
	Aggregators []string `yaml:"aggregators"`
}

// OverlayAggregators appends the domains listed in path to the configured
// aggregator set. Duplicates are removed later by NormalizeAndValidate.
func OverlayAggregators(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		// Missing overlay file should not kill the run
		return nil
	}

	var af AggregatorsFile
	if err := yaml.Unmarshal(b, &af); err != nil {
		return err
	}

	cfg.Classify.Aggregators = append(cfg.Classify.Aggregators, af.Aggregators...)
	return nil
}
