package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const KeyringService = "talentflow-engine"

// GetMailAPIKey reads the mail API key from the OS keychain. An empty account
// name means no key is configured; the dispatcher then sends unauthenticated.
func GetMailAPIKey(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err != nil {
			return "", err
		}
		return pw, nil
	}
	return "", nil
}

func SetMailAPIKey(keyringAccount string, key string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("mail API key is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, key)
}

func DeleteMailAPIKey(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
