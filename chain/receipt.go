package chain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// SystemAccount is the predecessor of refund receipts.
const SystemAccount = "system"

// Receipt is an asynchronous unit of execution: a batch of actions applied
// to a single receiver on behalf of a predecessor.
type Receipt struct {
	ID          string
	TxHash      string
	Predecessor string
	Receiver    string
	Signer      string
	Actions     []Action
	// Inputs are ids of receipts whose results this receipt consumes in
	// order, available through Context.PromiseResult.
	Inputs []string

	ready   []*Result
	missing int
	nonce   uint64
}

// IsRefund checks whether the receipt returns funds of a failed receipt.
func (r *Receipt) IsRefund() bool {
	return r.Predecessor == SystemAccount
}

// Result is the value or the error a receipt produced.
type Result struct {
	// Value is JSON returned by the called method, nil for void methods.
	Value []byte
	// Err is not nil for failed receipts.
	Err error
}

// Failed checks whether the receipt failed.
func (r Result) Failed() bool { return r.Err != nil }

// Decode unmarshals returned JSON into v.
func (r Result) Decode(v any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(r.Value) == 0 {
		return fmt.Errorf("empty result")
	}
	return json.Unmarshal(r.Value, v)
}

// Outcome describes an executed receipt.
type Outcome struct {
	Result

	ReceiptID   string
	TxHash      string
	Predecessor string
	Receiver    string
	Logs        []string
	// Events are structured logs. Events of failed receipts are dropped
	// along with their state changes.
	Events   []Event
	GasBurnt uint64
	// Spawned lists receipts created by this one.
	Spawned []string
}

// EventsByName returns events with the given name.
func (o *Outcome) EventsByName(name string) []Event {
	var res []Event
	for _, e := range o.Events {
		if e.Event == name {
			res = append(res, e)
		}
	}
	return res
}

func hashID(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(p)))
		h.Write(l[:])
		h.Write(p)
	}
	return base58.Encode(h.Sum(nil))
}

func u64Bytes(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
