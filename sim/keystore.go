// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/mr-tron/base58"
	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// KeyStore derives simulated account keys from a random seed. Only the seed
// and the number of derived keys are persisted, keys are regenerated on
// load.
type KeyStore struct {
	mutex sync.Mutex
	file  string

	seed   [24]byte          // the store's random seed.
	latest uint64            // the next key's nonce.
	keys   map[string]uint64 // address -> nonce of all derived keys.
}

// Key is a simulated Aleo account key.
type Key struct {
	sk      ed.PrivateKey
	address string
}

// ErrUnknownKey is returned when the store holds no key for an address.
var ErrUnknownKey = errors.New("no such key")

var bo = binary.LittleEndian

// NewRAMKeyStore creates an unpersisted KeyStore.
func NewRAMKeyStore(gen io.Reader) (*KeyStore, error) {
	ks := &KeyStore{keys: make(map[string]uint64)}
	if _, err := io.ReadFull(gen, ks.seed[:]); err != nil {
		return nil, errors.Wrap(err, "reading random seed")
	}
	return ks, nil
}

// CreateOrLoadKeyStore loads the key store from path, otherwise it creates a
// new one and saves it to path.
func CreateOrLoadKeyStore(path string, gen io.Reader) (*KeyStore, error) {
	ks := &KeyStore{
		file: path,
		keys: make(map[string]uint64),
	}

	if file, err := os.ReadFile(path); err == nil {
		if err := ks.load(bytes.NewReader(file)); err != nil {
			return nil, errors.WithMessagef(err, "loading key store %s", path)
		}
		return ks, nil
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "reading key store")
	}

	if _, err := io.ReadFull(gen, ks.seed[:]); err != nil {
		return nil, errors.Wrap(err, "reading random seed")
	}
	return ks, ks.save()
}

func (ks *KeyStore) load(r io.Reader) error {
	if _, err := io.ReadFull(r, ks.seed[:]); err != nil {
		return err
	}
	var latest uint64
	if err := binary.Read(r, bo, &latest); err != nil {
		return err
	}
	for nonce := uint64(0); nonce < latest; nonce++ {
		ks.keys[ks.genKey(nonce).address] = nonce
	}
	ks.latest = latest
	return nil
}

func (ks *KeyStore) save() error {
	if ks.file == "" {
		return nil
	}

	file := new(bytes.Buffer)
	file.Write(ks.seed[:])
	if err := binary.Write(file, bo, ks.latest); err != nil {
		return errors.Wrap(err, "writing key count")
	}
	return os.WriteFile(ks.file, file.Bytes(), 0o600)
}

func (ks *KeyStore) genKey(nonce uint64) *Key {
	seed := new(bytes.Buffer)
	seed.Write(ks.seed[:])
	if err := binary.Write(seed, bo, nonce); err != nil {
		panic("error writing nonce to seed buffer: " + err.Error())
	}

	pk, sk, err := ed.GenerateKey(seed)
	if err != nil {
		panic("logic error: generating key should not have failed")
	}
	address, err := wallet.EncodeBech32(wallet.AddressPrefix, pk)
	if err != nil {
		panic("logic error: encoding address should not have failed")
	}
	return &Key{sk: sk, address: address}
}

// NewKey derives the next key and persists the new key count.
func (ks *KeyStore) NewKey() (*Key, error) {
	ks.mutex.Lock()
	defer ks.mutex.Unlock()

	key := ks.genKey(ks.latest)
	ks.keys[key.address] = ks.latest
	ks.latest++
	return key, ks.save()
}

// Key returns the key of address.
func (ks *KeyStore) Key(address string) (*Key, error) {
	ks.mutex.Lock()
	defer ks.mutex.Unlock()

	nonce, ok := ks.keys[address]
	if !ok {
		return nil, errors.Wrap(ErrUnknownKey, address)
	}
	return ks.genKey(nonce), nil
}

// First returns the first key, deriving it if the store is empty.
func (ks *KeyStore) First() (*Key, error) {
	ks.mutex.Lock()
	if ks.latest > 0 {
		defer ks.mutex.Unlock()
		return ks.genKey(0), nil
	}
	ks.mutex.Unlock()
	return ks.NewKey()
}

// Len returns the number of derived keys.
func (ks *KeyStore) Len() int {
	ks.mutex.Lock()
	defer ks.mutex.Unlock()
	return len(ks.keys)
}

// Address returns the aleo1 address of the key.
func (k *Key) Address() string { return k.address }

// PrivateKey returns the key in the APrivateKey1 format.
func (k *Key) PrivateKey() string {
	return "APrivateKey1" + base58.Encode(k.sk.Seed())
}

// ViewKey returns the view key derived from the private key.
func (k *Key) ViewKey() string {
	h := sha256.Sum256(append([]byte("view"), k.sk.Seed()...))
	return "AViewKey1" + base58.Encode(h[:])
}

// Account returns the account of the key including its secrets.
func (k *Key) Account() *wallet.Account {
	return &wallet.Account{
		Address:    k.address,
		ViewKey:    k.ViewKey(),
		PrivateKey: k.PrivateKey(),
	}
}

// transitionViewKey derives the view key of transition i of txID.
func transitionViewKey(k *Key, txID string, i int) string {
	h := sha256.New()
	h.Write(k.sk.Seed())
	h.Write([]byte(txID))
	binary.Write(h, bo, uint32(i)) // nolint: errcheck
	return "AViewKey1" + base58.Encode(h.Sum(nil))
}

// Sign signs msg and returns the sign1 encoded signature.
func (k *Key) Sign(msg []byte) (string, error) {
	sig := ed.Sign(k.sk, msg)
	return wallet.EncodeBech32(wallet.SignaturePrefix, sig)
}

// Verify checks a sign1 signature of msg against an aleo1 address.
func Verify(address string, msg []byte, sig string) (ok bool, err error) {
	defer func() {
		if e := recover(); e != nil {
			var isErr bool
			if err, isErr = e.(error); !isErr {
				err = errors.Errorf("%v", e)
			}
		}
	}()

	pk, err := wallet.DecodeBech32(wallet.AddressPrefix, address)
	if err != nil {
		return false, errors.WithMessage(err, "decoding address")
	}
	raw, err := wallet.DecodeBech32(wallet.SignaturePrefix, sig)
	if err != nil {
		return false, errors.WithMessage(err, "decoding signature")
	}
	if len(pk) != ed.PublicKeySize || len(raw) != ed.SignatureSize {
		return false, errors.New("malformed key or signature")
	}
	return ed.Verify(ed.PublicKey(pk), msg, raw), nil
}
