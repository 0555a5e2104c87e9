package wallet

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const keychainService = "vicinity"

// ErrKeystoreUnavailable is returned when no keychain backend could be opened.
var ErrKeystoreUnavailable = errors.New("keystore not available")

// KeystoreBackend persists private keys by reference.
type KeystoreBackend interface {
	Store(name, hexKey string) (string, error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
	IDs() ([]string, error)
}

// Keystore keeps named account keys in the OS keychain.
type Keystore struct {
	ring keyring.Keyring
}

// DefaultKeystore opens the OS keychain, falling back to the file backend
// on headless Linux. A keychain that cannot be opened at all yields a
// keystore whose operations return ErrKeystoreUnavailable.
func DefaultKeystore() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		ring, err = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
		if err != nil {
			return &Keystore{}
		}
	}
	return &Keystore{ring: ring}
}

// Ref returns the keychain reference for an account id.
func Ref(id string) string {
	return keychainService + "." + id
}

func idFromRef(ref string) (string, bool) {
	return strings.CutPrefix(ref, keychainService+".")
}

func (k *Keystore) Store(name, hexKey string) (string, error) {
	if k.ring == nil {
		return "", ErrKeystoreUnavailable
	}
	ref := Ref(name)
	if err := k.ring.Set(keyring.Item{Key: ref, Label: "vicinity account " + name, Data: []byte(hexKey)}); err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

func (k *Keystore) Retrieve(ref string) (string, error) {
	if k.ring == nil {
		return "", ErrKeystoreUnavailable
	}
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored key. Removing an absent key is not an error.
func (k *Keystore) Delete(ref string) error {
	if k.ring == nil {
		return nil
	}
	if err := k.ring.Remove(ref); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("keychain remove: %w", err)
	}
	return nil
}

// IDs lists the account ids held in the keychain, sorted.
func (k *Keystore) IDs() ([]string, error) {
	if k.ring == nil {
		return nil, ErrKeystoreUnavailable
	}
	refs, err := k.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("keychain list: %w", err)
	}
	return idsOf(refs), nil
}

// InMemoryKeystore keeps keys in process memory.
type InMemoryKeystore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewInMemoryKeystore creates an empty in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Store(name, hexKey string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	ref := Ref(name)
	k.data[ref] = hexKey
	return ref, nil
}

func (k *InMemoryKeystore) Retrieve(ref string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.data[ref]
	if !ok {
		return "", fmt.Errorf("%w: %s", keyring.ErrKeyNotFound, ref)
	}
	return v, nil
}

func (k *InMemoryKeystore) Delete(ref string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, ref)
	return nil
}

func (k *InMemoryKeystore) IDs() ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	refs := make([]string, 0, len(k.data))
	for ref := range k.data {
		refs = append(refs, ref)
	}
	return idsOf(refs), nil
}

func idsOf(refs []string) []string {
	var ids []string
	for _, ref := range refs {
		if id, ok := idFromRef(ref); ok && id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ImportKey validates hexKey and stores it under id.
func ImportKey(ks KeystoreBackend, id, hexKey string) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("empty account id")
	}
	acct, err := NewKeyedAccount(id, hexKey)
	if err != nil {
		return nil, err
	}
	if _, err := ks.Store(id, normaliseHexKey(hexKey)); err != nil {
		return nil, err
	}
	return acct, nil
}

// LoadAccount builds a keyed account from the key stored under id.
func LoadAccount(ks KeystoreBackend, id string) (*Account, error) {
	hexKey, err := ks.Retrieve(Ref(id))
	if err != nil {
		return nil, fmt.Errorf("loading account %s: %w", id, err)
	}
	return NewKeyedAccount(id, hexKey)
}
