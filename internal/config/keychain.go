package config

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	keychainService = "botlite"
	keychainAccount = "bot-token"
)

// ErrNoToken is returned when the keychain holds no token.
var ErrNoToken = errors.New("no bot token in keychain")

// GetToken retrieves the bot token from the system keychain.
func GetToken() (string, error) {
	token, err := keyring.Get(keychainService, keychainAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	return token, err
}

// SetToken stores the bot token in the system keychain.
func SetToken(token string) error {
	return keyring.Set(keychainService, keychainAccount, token)
}

// DeleteToken removes the bot token from the system keychain.
func DeleteToken() error {
	err := keyring.Delete(keychainService, keychainAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNoToken
	}
	return err
}
