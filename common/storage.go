package common

import (
	"encoding/binary"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// GetSerialized reads a stored value into v. It returns false if the key is
// missing and panics if the value can't be decoded.
func GetSerialized(ic *chain.Context, key []byte, v io.Serializable) bool {
	data := ic.Get(key)
	if data == nil {
		return false
	}
	r := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	if r.Err != nil {
		panic(fmt.Errorf("decode %x: %w", key, r.Err))
	}
	return true
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ic *chain.Context, key []byte, v io.Serializable) {
	w := io.NewBufBinWriter()
	v.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		panic(fmt.Errorf("encode %x: %w", key, w.Err))
	}
	ic.Put(key, w.Bytes())
}

// GetU128 returns stored amount or zero.
func GetU128(ic *chain.Context, key []byte) uint128.Uint128 {
	data := ic.Get(key)
	if len(data) != 16 {
		return uint128.Zero
	}
	return uint128.New(binary.LittleEndian.Uint64(data), binary.LittleEndian.Uint64(data[8:]))
}

// PutU128 stores amount, zero amounts are deleted.
func PutU128(ic *chain.Context, key []byte, v uint128.Uint128) {
	if v.IsZero() {
		ic.Delete(key)
		return
	}
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data, v.Lo)
	binary.LittleEndian.PutUint64(data[8:], v.Hi)
	ic.Put(key, data)
}

// WriteU128 encodes amount with neo-go binary writer.
func WriteU128(w *io.BinWriter, v uint128.Uint128) {
	w.WriteU64LE(v.Lo)
	w.WriteU64LE(v.Hi)
}

// ReadU128 decodes amount written by WriteU128.
func ReadU128(r *io.BinReader) uint128.Uint128 {
	lo := r.ReadU64LE()
	hi := r.ReadU64LE()
	return uint128.New(lo, hi)
}

// Key concatenates a single-byte prefix with key parts separated by zero
// bytes, account ids and token ids never contain them.
func Key(prefix byte, parts ...string) []byte {
	k := []byte{prefix}
	for i, p := range parts {
		if i != 0 {
			k = append(k, 0)
		}
		k = append(k, p...)
	}
	return k
}
