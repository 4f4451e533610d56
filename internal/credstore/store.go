// Package credstore keeps credentials opsync needs between runs, such as a Fly API
// token saved with `opsync auth set-token`. The OS keyring is preferred; an encrypted
// file is used where no keyring is available.
package credstore

import "errors"

// Store is the interface for credential storage.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	List() ([]string, error)
}

// ErrNotFound is returned when a key is not found in the store.
var ErrNotFound = errors.New("key not found")

// ServiceName is the service identifier for keyring storage.
const ServiceName = "opsync"

// FlyAPIToken is the key holding the Fly.io API token.
const FlyAPIToken = "fly_api_token"
