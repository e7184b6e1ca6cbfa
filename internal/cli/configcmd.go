package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shopscout-engine/internal/config"
)

func configCmd(env Env) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect or bootstrap config.yml",
	}

	c.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config.yml into SHOPSCOUT_DATA_DIR if none exists",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			dir := dataDir(env.Lookup)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			path, created, err := config.EnsureUserConfig(dir)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(env.Stdout, "Created %s\n", path)
			} else {
				fmt.Fprintf(env.Stdout, "%s already exists\n", path)
			}
			return nil
		},
	})

	return c
}

func loadRaw(env Env) (config.Config, string, error) {
	cfg, path, err := config.LoadFromDir(dataDir(env.Lookup))
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, path, nil
}
