package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var canonicalFields = map[string]bool{
	"ShopID":      true,
	"AccountName": true,
	"BillingCity": true,
	"BillingZip":  true,
}

func Validate(cfg Config) error {
	var errs []string

	if strings.TrimSpace(cfg.Places.BaseURL) == "" {
		errs = append(errs, "places.base_url is required")
	}
	if cfg.Places.Timeout <= 0 {
		errs = append(errs, "places.timeout must be > 0")
	}
	if cfg.Places.MinInterval < 0 {
		errs = append(errs, "places.min_interval must be >= 0")
	}
	if strings.TrimSpace(cfg.Credentials.EnvVar) == "" {
		errs = append(errs, "credentials.env_var is required")
	}

	if len(cfg.Workbook.Sheets) == 0 {
		errs = append(errs, "workbook.sheets must have at least 1 sheet")
	}
	for i, s := range cfg.Workbook.Sheets {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Sprintf("workbook.sheets[%d] cannot be empty", i))
		}
	}
	hasName := false
	for src, dst := range cfg.Workbook.Columns {
		if !canonicalFields[dst] {
			errs = append(errs, fmt.Sprintf("workbook.columns[%q] maps to unknown field %q", src, dst))
		}
		if dst == "AccountName" {
			hasName = true
		}
	}
	if !hasName {
		errs = append(errs, "workbook.columns must map a column to AccountName")
	}

	for i, d := range cfg.Classify.Aggregators {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Sprintf("classify.aggregators[%d] cannot be empty", i))
		}
	}
	switch cfg.Classify.StripMode {
	case StripExact, StripLegacy:
	default:
		errs = append(errs, fmt.Sprintf("classify.strip_mode must be %q or %q", StripExact, StripLegacy))
	}

	if cfg.Probe.Enabled && cfg.Probe.Timeout <= 0 {
		errs = append(errs, "probe.timeout must be > 0 when probe.enabled=true")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n- ")
}
