package dump

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/launchpad-contract/chain"
)

// Creator dumps states of chain accounts. Output file format:
//
//	'<label>-<receipts>-accounts.json': JSON array of accounts' states
//	'<label>-<receipts>-storage.csv': CSV of contracts' storages
//
// Storage CSV are 'account,key,value' where binary key-value are
// base64-encoded.
//
// Use IterateDumps to access existing dumps.
type Creator struct {
	dumpStreams

	accounts []AccountState

	storageItemsCSV *csv.Writer
}

// NewCreator returns Creator which dumps accounts into given directory. The
// dump is identified by specified ID. Resulting Creator should be closed when
// finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	var res Creator

	err := initDumpStreams(&res.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.storageItemsCSV = csv.NewWriter(res.dumpStreams.storageItems)

	return &res, nil
}

// AddAccount adds given account state to the resulting dump and returns
// StorageWriter for the account storage. After all needed accounts are
// added, they should be flushed via Flush method.
func (x *Creator) AddAccount(st AccountState) *StorageWriter {
	x.accounts = append(x.accounts, st)

	return &StorageWriter{
		account: st.ID,
		csv:     x.storageItemsCSV,
	}
}

// Flush flushes accumulated dump to the file system.
func (x *Creator) Flush() error {
	jEnc := json.NewEncoder(x.dumpStreams.accounts)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(x.accounts)
	if err != nil {
		return fmt.Errorf("encode account states to JSON: %w", err)
	}

	x.storageItemsCSV.Flush()

	err = x.storageItemsCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}

// StorageWriter writes data into the superior account's storage dump.
type StorageWriter struct {
	account string
	csv     *csv.Writer
}

// Write saves given binary key-value into the account dump as storage item.
func (x *StorageWriter) Write(key, value []byte) error {
	err := x.csv.Write([]string{
		x.account,
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	return nil
}

// Chain is a chain which state can be dumped.
type Chain interface {
	Executed() uint64
	IterateAccounts(f func(id string, a *chain.Account) bool) error
	IterateStorage(id string, f func(key, value []byte) bool)
	Code(id string) (*chain.Code, error)
}

// Snapshot dumps all accounts of the chain into the directory and returns
// the ID of the created dump.
func Snapshot(bc Chain, dir, label string) (ID, error) {
	id := ID{Label: label, Receipts: bc.Executed()}

	d, err := NewCreator(dir, id)
	if err != nil {
		return id, fmt.Errorf("init local dumper: %w", err)
	}

	defer d.Close()

	var werr error
	err = bc.IterateAccounts(func(acc string, a *chain.Account) bool {
		st := AccountState{
			ID:           acc,
			Balance:      chain.NewU128(a.Balance),
			StorageUsage: a.StorageUsage,
		}
		if a.HasCode() {
			st.CodeHash = hex.EncodeToString(a.CodeHash)
			if c, err := bc.Code(acc); err == nil {
				st.Contract = c.Name()
			}
		}

		w := d.AddAccount(st)
		bc.IterateStorage(acc, func(k, v []byte) bool {
			werr = w.Write(k, v)
			return werr == nil
		})
		return werr == nil
	})
	if err != nil {
		return id, fmt.Errorf("iterate accounts: %w", err)
	}
	if werr != nil {
		return id, werr
	}

	err = d.Flush()
	if err != nil {
		return id, fmt.Errorf("flush dump: %w", err)
	}

	return id, nil
}
