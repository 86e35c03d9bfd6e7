package dump

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/launchpad-contract/chain"
)

// ID is a unique identifier of the dump.
type ID struct {
	// Label of the dump source (e.g. simulation name).
	Label string
	// Number of receipts executed by the chain when the state was pulled.
	Receipts uint64
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(x.Receipts, 10)
}

// decodes ID fields from the hyphen-separated string. The label must not
// contain separators.
func (x *ID) decodeString(s string) error {
	ss := strings.Split(s, sep)
	if len(ss) < 2 {
		return fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}

	n, err := strconv.ParseUint(ss[1], 10, 64)
	if err != nil {
		return fmt.Errorf("decode receipt number from '%s': %w", ss[1], err)
	}

	x.Label = ss[0]
	x.Receipts = n

	return nil
}

// global encoding of binary values.
var _encoding = base64.StdEncoding

// AccountState is a JSON-encoded information about the dumped account.
type AccountState struct {
	ID      string     `json:"id"`
	Balance chain.U128 `json:"balance"`
	// Contract name, empty for plain accounts.
	Contract     string `json:"contract,omitempty"`
	CodeHash     string `json:"code_hash,omitempty"`
	StorageUsage uint64 `json:"storage_usage"`
}

// dumpStreams groups data streams for accounts' states and storages.
type dumpStreams struct {
	accounts, storageItems io.ReadWriteCloser
}

// close closes all streams.
func (x *dumpStreams) close() {
	_ = x.storageItems.Close()
	_ = x.accounts.Close()
}

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of file with accounts' states
	statesFileSuffix = "accounts.json"
	// suffix of file with storage records
	storageFileSuffix = "storage.csv"
)

// initDumpStreams opens data streams for the dump files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initDumpStreams(d *dumpStreams, dir string, id ID, read bool) error {
	var err error

	pathStorage := filepath.Join(dir, id.String()+sep+storageFileSuffix)
	pathAccounts := filepath.Join(dir, id.String()+sep+statesFileSuffix)
	if !read {
		if err = checkNewDump(id, pathStorage, pathAccounts); err != nil {
			return err
		}
	}

	var flag int
	var perm os.FileMode

	if read {
		flag = os.O_RDONLY
	} else {
		flag = os.O_CREATE | os.O_WRONLY
		perm = 0600
	}

	d.storageItems, err = os.OpenFile(pathStorage, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with storage items: %w", err)
	}

	d.accounts, err = os.OpenFile(pathAccounts, flag, perm)
	if err != nil {
		_ = d.storageItems.Close()
		return fmt.Errorf("open file with account states: %w", err)
	}

	return nil
}
