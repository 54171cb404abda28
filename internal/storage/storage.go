// Package storage persists the account collection. Two interchangeable
// backends exist: the OS keyring and a JSON file.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hotpot-dev/hotpot/internal/totp"
)

var (
	ErrDuplicateAccountName = errors.New("account already exists")
	ErrAccountNotFound      = errors.New("account not found")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrCorrupt              = errors.New("stored data is corrupt")
)

// Storage is the full account collection, the unit a Store loads and saves.
type Storage struct {
	Accounts []totp.Account `json:"accounts"`
}

// Store loads and saves the whole collection. Save must be atomic: a failed
// save leaves the previously persisted collection readable.
type Store interface {
	Load() (Storage, error)
	Save(Storage) error
}

// Sorted returns a copy ordered by account name.
func (s Storage) Sorted() Storage {
	out := s.Clone()
	sort.SliceStable(out.Accounts, func(i, j int) bool {
		return out.Accounts[i].Name < out.Accounts[j].Name
	})
	return out
}

func (s Storage) Clone() Storage {
	accounts := make([]totp.Account, len(s.Accounts))
	copy(accounts, s.Accounts)
	return Storage{Accounts: accounts}
}

// Find returns the account with the exact name.
func (s Storage) Find(name string) (totp.Account, bool) {
	for _, a := range s.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return totp.Account{}, false
}

// WithAccount returns a new collection that also contains a. The receiver is
// not modified, so callers can keep it as the rollback copy.
func (s Storage) WithAccount(a totp.Account) (Storage, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Issuer = strings.TrimSpace(a.Issuer)
	a.Secret = strings.TrimSpace(a.Secret)
	if err := a.Validate(); err != nil {
		return s, err
	}
	if _, exists := s.Find(a.Name); exists {
		return s, fmt.Errorf("%w: %s", ErrDuplicateAccountName, a.Name)
	}
	out := s.Clone()
	out.Accounts = append(out.Accounts, a)
	return out.Sorted(), nil
}

// Without returns a new collection without the named account.
func (s Storage) Without(name string) (Storage, error) {
	out := Storage{Accounts: make([]totp.Account, 0, len(s.Accounts))}
	found := false
	for _, a := range s.Accounts {
		if a.Name == name {
			found = true
			continue
		}
		out.Accounts = append(out.Accounts, a)
	}
	if !found {
		return s, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	return out, nil
}

// Add loads the collection, adds a and saves it.
func Add(store Store, a totp.Account) (Storage, error) {
	current, err := store.Load()
	if err != nil {
		return Storage{}, err
	}
	next, err := current.WithAccount(a)
	if err != nil {
		return current, err
	}
	if err := store.Save(next); err != nil {
		return current, err
	}
	return next, nil
}

// Remove loads the collection, removes the named account and saves it.
func Remove(store Store, name string) (Storage, error) {
	current, err := store.Load()
	if err != nil {
		return Storage{}, err
	}
	next, err := current.Without(name)
	if err != nil {
		return current, err
	}
	if err := store.Save(next); err != nil {
		return current, err
	}
	return next, nil
}

// Get loads the collection and returns the named account.
func Get(store Store, name string) (totp.Account, error) {
	current, err := store.Load()
	if err != nil {
		return totp.Account{}, err
	}
	a, ok := current.Find(name)
	if !ok {
		return totp.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	return a, nil
}

func normalize(s Storage) Storage {
	out := Storage{Accounts: make([]totp.Account, len(s.Accounts))}
	for i, a := range s.Accounts {
		out.Accounts[i] = a.WithDefaults()
	}
	return out
}
