package chain

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.uber.org/zap"
)

// Blockchain is a deterministic in-process account-model chain. Receipts are
// executed one at a time in FIFO order; receipts waiting for results of
// other receipts are postponed until all their inputs are ready.
//
// Blockchain is not safe for concurrent use.
type Blockchain struct {
	cfg   Config
	log   *zap.Logger
	store *storage.MemoryStore
	codes map[string]*Code

	queue     deque.Deque[*Receipt]
	postponed map[string]*Receipt
	// waiters maps receipt id to receipts consuming its result.
	waiters  map[string][]waiter
	outcomes map[string]*Outcome
	txs      map[string][]string

	nonce    uint64
	executed uint64
}

type waiter struct {
	receipt string
	index   int
}

// Transaction is a signed batch of actions.
type Transaction struct {
	Signer   string
	Receiver string
	Actions  []Action
}

// TxResult describes a sent transaction. Only the first receipt is executed
// when the transaction is sent, the rest stays queued until Step or Settle.
type TxResult struct {
	Hash    string
	Outcome *Outcome
}

// New creates an empty chain. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Blockchain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Blockchain{
		cfg:       cfg,
		log:       log,
		store:     storage.NewMemoryStore(),
		codes:     make(map[string]*Code),
		postponed: make(map[string]*Receipt),
		waiters:   make(map[string][]waiter),
		outcomes:  make(map[string]*Outcome),
		txs:       make(map[string][]string),
	}
}

// Config returns runtime parameters.
func (bc *Blockchain) Config() Config { return bc.cfg }

// CreateAccount creates a genesis account. Unlike CreateAccount action it
// doesn't require the parent.
func (bc *Blockchain) CreateAccount(id string, balance uint128.Uint128) error {
	if err := ValidateAccountID(id); err != nil {
		return err
	}
	return bc.apply(func(st *state) error {
		_, err := st.createAccount(id, balance)
		return err
	})
}

// Deploy sets genesis account code without any checks.
func (bc *Blockchain) Deploy(id string, code *Code) error {
	return bc.apply(func(st *state) error {
		if err := st.deploy(id, code); err != nil {
			return err
		}
		return st.checkStake(id)
	})
}

func (bc *Blockchain) apply(f func(st *state) error) error {
	cache := storage.NewMemCachedStore(bc.store)
	st := newState(cache, &bc.cfg, bc.codes)
	if err := f(st); err != nil {
		return err
	}
	if err := st.flush(); err != nil {
		return err
	}
	_, err := cache.Persist()
	return err
}

// SendTransaction deducts attached deposits from the signer and executes the
// first receipt of the transaction. Errors are returned for transactions that
// can't be accepted; a failure of the receipt itself is reported in the
// outcome.
func (bc *Blockchain) SendTransaction(tx Transaction) (*TxResult, error) {
	if err := ValidateAccountID(tx.Receiver); err != nil {
		return nil, err
	}
	if g := totalGas(tx.Actions); g > bc.cfg.MaxTxGas {
		return nil, fmt.Errorf("%w: %s > %s", ErrGasLimitExceeded, GasString(g), GasString(bc.cfg.MaxTxGas))
	}
	deposit, err := totalDeposit(tx.Actions)
	if err != nil {
		return nil, err
	}
	err = bc.apply(func(st *state) error {
		return st.debit(tx.Signer, deposit)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	bc.nonce++
	hash := hashID([]byte(tx.Signer), []byte(tx.Receiver), u64Bytes(bc.nonce))
	r := &Receipt{
		ID:          hashID([]byte(hash), []byte("receipt")),
		TxHash:      hash,
		Predecessor: tx.Signer,
		Receiver:    tx.Receiver,
		Signer:      tx.Signer,
		Actions:     tx.Actions,
	}
	bc.log.Debug("transaction accepted",
		zap.String("hash", hash),
		zap.String("signer", tx.Signer),
		zap.String("receiver", tx.Receiver),
		zap.Int("actions", len(tx.Actions)))

	return &TxResult{Hash: hash, Outcome: bc.execute(r)}, nil
}

// Pending returns the number of receipts not executed yet, postponed ones
// included.
func (bc *Blockchain) Pending() int {
	return bc.queue.Len() + len(bc.postponed)
}

// Step executes the next queued receipt. It returns false if the queue is
// empty.
func (bc *Blockchain) Step() (*Outcome, bool) {
	if bc.queue.Len() == 0 {
		return nil, false
	}
	return bc.execute(bc.queue.PopFront()), true
}

// Settle executes queued receipts until none is left.
func (bc *Blockchain) Settle() error {
	for i := 0; bc.queue.Len() != 0; i++ {
		if i >= bc.cfg.MaxSettleSteps {
			return fmt.Errorf("%w: %d", ErrSettleLimit, bc.cfg.MaxSettleSteps)
		}
		bc.Step()
	}
	return nil
}

// View calls a view method. Nothing is persisted.
func (bc *Blockchain) View(receiver, method string, args []byte) ([]byte, error) {
	cache := storage.NewMemCachedStore(bc.store)
	st := newState(cache, &bc.cfg, bc.codes)
	a, err := st.account(receiver)
	if err != nil {
		return nil, err
	}
	code, ok := st.code(a)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotDeployed, receiver)
	}
	m, ok := code.Method(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, receiver, method)
	}
	ic := &Context{
		bc:       bc,
		st:       st,
		receipt:  &Receipt{Receiver: receiver},
		prepaid:  bc.cfg.MaxTxGas,
		readOnly: true,
	}
	res := bc.invoke(ic, m, args)
	return res.Value, res.Err
}

// Account returns account record.
func (bc *Blockchain) Account(id string) (*Account, error) {
	st := newState(storage.NewMemCachedStore(bc.store), &bc.cfg, bc.codes)
	return st.account(id)
}

// AccountExists checks whether the account exists.
func (bc *Blockchain) AccountExists(id string) bool {
	_, err := bc.Account(id)
	return err == nil
}

// Balance returns account balance, zero for missing accounts.
func (bc *Blockchain) Balance(id string) uint128.Uint128 {
	a, err := bc.Account(id)
	if err != nil {
		return uint128.Zero
	}
	return a.Balance
}

// Code returns the contract deployed to the account.
func (bc *Blockchain) Code(id string) (*Code, error) {
	a, err := bc.Account(id)
	if err != nil {
		return nil, err
	}
	c, ok := bc.codes[string(a.CodeHash)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotDeployed, id)
	}
	return c, nil
}

// IterateAccounts passes every account to f in id order.
func (bc *Blockchain) IterateAccounts(f func(id string, a *Account) bool) error {
	type entry struct {
		id string
		a  *Account
	}
	var (
		entries []entry
		errs    error
	)
	bc.store.Seek(storage.SeekRange{Prefix: []byte{prefixAccount}}, func(k, v []byte) bool {
		if len(k) == 0 || k[0] != prefixAccount {
			return true
		}
		a := new(Account)
		r := io.NewBinReaderFromBuf(v)
		a.DecodeBinary(r)
		if r.Err != nil {
			errs = errors.Join(errs, fmt.Errorf("decode account %s: %w", k[1:], r.Err))
			return true
		}
		entries = append(entries, entry{string(k[1:]), a})
		return true
	})
	for _, e := range entries {
		if !f(e.id, e.a) {
			break
		}
	}
	return errs
}

// IterateStorage passes every contract record of the account to f in key
// order.
func (bc *Blockchain) IterateStorage(id string, f func(key, value []byte) bool) {
	st := newState(storage.NewMemCachedStore(bc.store), &bc.cfg, bc.codes)
	st.find(id, nil, f)
}

// Outcome returns the outcome of an executed receipt.
func (bc *Blockchain) Outcome(receiptID string) (*Outcome, bool) {
	o, ok := bc.outcomes[receiptID]
	return o, ok
}

// TxOutcomes returns outcomes of all executed receipts of the transaction in
// execution order.
func (bc *Blockchain) TxOutcomes(hash string) []*Outcome {
	ids := bc.txs[hash]
	res := make([]*Outcome, 0, len(ids))
	for _, id := range ids {
		res = append(res, bc.outcomes[id])
	}
	return res
}

// Executed returns the number of executed receipts.
func (bc *Blockchain) Executed() uint64 { return bc.executed }
