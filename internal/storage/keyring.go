package storage

import (
	"errors"
	"fmt"
	"log"

	"github.com/zalando/go-keyring"
)

const (
	KeyringService = "hotpot"
	KeyringKey     = "_hotpot_storage"
)

// KeyringStore keeps the JSON-encoded collection as one entry in the OS keyring.
// The platform keyring replaces the entry as a whole, which gives atomic saves.
type KeyringStore struct {
	service string
	key     string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: KeyringService, key: KeyringKey}
}

func (s *KeyringStore) Load() (Storage, error) {
	data, err := keyring.Get(s.service, s.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Storage{}, nil
		}
		return Storage{}, fmt.Errorf("%w: keyring: %v", ErrStoreUnavailable, err)
	}
	return decode([]byte(data), "keyring entry "+s.service+"/"+s.key)
}

func (s *KeyringStore) Save(st Storage) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.service, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: keyring: %v", ErrStoreUnavailable, err)
	}
	log.Printf("[STORE] saved %d accounts to keyring", len(st.Accounts))
	return nil
}
