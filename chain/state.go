package chain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

const (
	prefixAccount = 'a'
	prefixData    = 's'
)

// state is the view of the chain a single receipt works with. Changes stay
// in the underlying MemCachedStore until the receipt succeeds.
type state struct {
	store    *storage.MemCachedStore
	cfg      *Config
	codes    map[string]*Code
	accounts map[string]*Account
}

func newState(store *storage.MemCachedStore, cfg *Config, codes map[string]*Code) *state {
	return &state{
		store:    store,
		cfg:      cfg,
		codes:    codes,
		accounts: make(map[string]*Account),
	}
}

func accountKey(id string) []byte {
	return append([]byte{prefixAccount}, id...)
}

func dataPrefix(id string) []byte {
	k := make([]byte, 0, len(id)+2)
	k = append(k, prefixData)
	k = append(k, id...)
	return append(k, 0)
}

func dataKey(id string, key []byte) []byte {
	return append(dataPrefix(id), key...)
}

func recordSize(key, value []byte) uint64 {
	return uint64(len(key) + len(value))
}

func (s *state) account(id string) (*Account, error) {
	if a, ok := s.accounts[id]; ok {
		if a == nil {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		return a, nil
	}
	data, err := s.store.Get(accountKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	a := new(Account)
	r := io.NewBinReaderFromBuf(data)
	a.DecodeBinary(r)
	if r.Err != nil {
		return nil, fmt.Errorf("decode account %s: %w", id, r.Err)
	}
	s.accounts[id] = a
	return a, nil
}

func (s *state) exists(id string) bool {
	_, err := s.account(id)
	return err == nil
}

func (s *state) createAccount(id string, balance uint128.Uint128) (*Account, error) {
	if s.exists(id) {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, id)
	}
	a := &Account{Balance: balance, StorageUsage: s.cfg.AccountOverhead}
	s.accounts[id] = a
	return a, nil
}

func (s *state) deleteAccount(id string) error {
	if _, err := s.account(id); err != nil {
		return err
	}
	var keys [][]byte
	s.store.Seek(storage.SeekRange{Prefix: dataPrefix(id)}, func(k, _ []byte) bool {
		keys = append(keys, bytes.Clone(k))
		return true
	})
	for _, k := range keys {
		s.store.Delete(k)
	}
	s.accounts[id] = nil
	return nil
}

func (s *state) credit(id string, amount uint128.Uint128) error {
	a, err := s.account(id)
	if err != nil {
		return err
	}
	b, overflow := a.Balance.AddOverflow(amount)
	if overflow {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, id)
	}
	a.Balance = b
	return nil
}

func (s *state) debit(id string, amount uint128.Uint128) error {
	a, err := s.account(id)
	if err != nil {
		return err
	}
	if a.Balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrNotEnoughBalance, id, a.Balance, amount)
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

func (s *state) code(a *Account) (*Code, bool) {
	if !a.HasCode() {
		return nil, false
	}
	c, ok := s.codes[string(a.CodeHash)]
	return c, ok
}

func (s *state) deploy(id string, c *Code) error {
	a, err := s.account(id)
	if err != nil {
		return err
	}
	if old, ok := s.code(a); ok {
		a.StorageUsage -= old.Size()
	}
	s.codes[string(c.Hash())] = c
	a.CodeHash = c.Hash()
	a.StorageUsage += c.Size()
	return nil
}

func (s *state) get(id string, key []byte) ([]byte, bool) {
	v, err := s.store.Get(dataKey(id, key))
	if err != nil {
		return nil, false
	}
	return bytes.Clone(v), true
}

func (s *state) put(id string, key, value []byte) error {
	a, err := s.account(id)
	if err != nil {
		return err
	}
	if old, ok := s.get(id, key); ok {
		a.StorageUsage -= s.cfg.RecordOverhead + recordSize(key, old)
	}
	a.StorageUsage += s.cfg.RecordOverhead + recordSize(key, value)
	s.store.Put(dataKey(id, key), append([]byte{}, value...))
	return nil
}

func (s *state) del(id string, key []byte) error {
	a, err := s.account(id)
	if err != nil {
		return err
	}
	old, ok := s.get(id, key)
	if !ok {
		return nil
	}
	a.StorageUsage -= s.cfg.RecordOverhead + recordSize(key, old)
	s.store.Delete(dataKey(id, key))
	return nil
}

// find iterates over account records with the given key prefix in key
// order. Keys are passed without the prefix.
func (s *state) find(id string, prefix []byte, f func(key, value []byte) bool) {
	full := dataKey(id, prefix)
	s.store.Seek(storage.SeekRange{Prefix: full}, func(k, v []byte) bool {
		if !bytes.HasPrefix(k, full) {
			return true
		}
		return f(bytes.Clone(k[len(full):]), bytes.Clone(v))
	})
}

// checkStake verifies that the account balance covers its storage.
func (s *state) checkStake(id string) error {
	a, ok := s.accounts[id]
	if !ok || a == nil {
		return nil
	}
	locked := a.Locked(s.cfg.StorageByteCost)
	if a.Balance.Cmp(locked) < 0 {
		return fmt.Errorf("%w: %s uses %d bytes, requires %s, has %s",
			ErrLackBalanceForState, id, a.StorageUsage, locked, a.Balance)
	}
	return nil
}

// flush writes modified accounts into the store.
func (s *state) flush() error {
	for id, a := range s.accounts {
		if a == nil {
			s.store.Delete(accountKey(id))
			continue
		}
		w := io.NewBufBinWriter()
		a.EncodeBinary(w.BinWriter)
		if w.Err != nil {
			return fmt.Errorf("encode account %s: %w", id, w.Err)
		}
		s.store.Put(accountKey(id), w.Bytes())
	}
	return nil
}
