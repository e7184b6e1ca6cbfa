package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shopscout-engine/internal/secrets"
)

func keyCmd(env Env) *cobra.Command {
	c := &cobra.Command{
		Use:   "key",
		Short: "Manage the Places API key stored in the OS keychain",
	}

	set := &cobra.Command{
		Use:   "set <api-key>",
		Short: "Store the Places API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			account, err := keyConfig(env)
			if err != nil {
				return err
			}
			if err := secrets.SetAPIKey(account, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(env.Stdout, "API key saved to keychain")
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored Places API key",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			account, err := keyConfig(env)
			if err != nil {
				return err
			}
			if err := secrets.DeleteAPIKey(account); err != nil {
				return err
			}
			fmt.Fprintln(env.Stdout, "API key removed from keychain")
			return nil
		},
	}

	c.AddCommand(set, del)
	return c
}

// keyConfig resolves the keychain account from config.yml.
func keyConfig(env Env) (string, error) {
	cfg, _, err := loadRaw(env)
	if err != nil {
		return "", err
	}
	return cfg.Credentials.KeyringAccount, nil
}
