// internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StripExact  = "exact"
	StripLegacy = "legacy"
)

type Config struct {
	Places struct {
		BaseURL     string        `yaml:"base_url"`
		Region      string        `yaml:"region"`
		Timeout     time.Duration `yaml:"timeout"`
		MinInterval time.Duration `yaml:"min_interval"`
	} `yaml:"places"`

	Credentials struct {
		EnvVar         string `yaml:"env_var"`
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"credentials"`

	Workbook struct {
		Sheets  []string          `yaml:"sheets"`
		Columns map[string]string `yaml:"columns"` // source header -> canonical field
	} `yaml:"workbook"`

	Classify struct {
		Aggregators     []string `yaml:"aggregators"`
		AggregatorsFile string   `yaml:"aggregators_file"`
		StripMode       string   `yaml:"strip_mode"` // exact | legacy
	} `yaml:"classify"`

	Outreach struct {
		Brand string `yaml:"brand"`
	} `yaml:"outreach"`

	Probe struct {
		Enabled bool          `yaml:"enabled"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"probe"`

	Report struct {
		SQLitePath      string `yaml:"sqlite_path"`
		MetricsTextfile string `yaml:"metrics_textfile"`
	} `yaml:"report"`
}

// DefaultAggregators are third-party ordering platforms. A website on one of
// these domains does not count as direct ordering.
var DefaultAggregators = []string{
	"doordash.com",
	"grubhub.com",
	"ubereats.com",
	"seamless.com",
	"postmates.com",
	"slicelife.com",
	"slicelife.onelink.me",
	"bestcafes.online",
}

func Default() Config {
	var cfg Config
	cfg.Places.BaseURL = "https://maps.googleapis.com/maps/api/place"
	cfg.Places.Region = "MA"
	cfg.Places.Timeout = 10 * time.Second
	cfg.Places.MinInterval = 200 * time.Millisecond

	cfg.Credentials.EnvVar = "GOOGLE_API_KEY"
	cfg.Credentials.KeyringAccount = "shopscout:google-places"

	cfg.Workbook.Sheets = []string{"All", "Multi Location Shops", "OO Partners"}
	cfg.Workbook.Columns = map[string]string{
		"Shop ID":                 "ShopID",
		"Account Name":            "AccountName",
		"Billing City":            "BillingCity",
		"Billing Zip/Postal Code": "BillingZip",
	}

	cfg.Classify.Aggregators = append([]string(nil), DefaultAggregators...)
	cfg.Classify.StripMode = StripExact

	cfg.Outreach.Brand = "Slice"
	cfg.Probe.Timeout = 10 * time.Second
	return cfg
}

// Load reads path on top of Default(). Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
