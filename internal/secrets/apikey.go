package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "shopscout"
)

// Source says where an API key came from.
type Source string

const (
	SourceNone    Source = ""
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// LookupEnv matches os.LookupEnv; tests swap it out.
type LookupEnv func(key string) (string, bool)

// APIKey returns the Places API key from envVar, then from the keychain
// entry for keyringAccount. An empty key with SourceNone means no
// credential is configured; that is not an error.
func APIKey(lookup LookupEnv, envVar, keyringAccount string) (string, Source) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if envVar != "" {
		if v, ok := lookup(envVar); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), SourceEnv
		}
	}

	if strings.TrimSpace(keyringAccount) != "" {
		key, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), SourceKeyring
		}
	}
	return "", SourceNone
}

func SetAPIKey(keyringAccount string, key string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, strings.TrimSpace(key))
}

func DeleteAPIKey(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
