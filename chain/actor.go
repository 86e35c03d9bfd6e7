package chain

import (
	"encoding/json"
	"fmt"

	"github.com/gaze-network/uint128"
)

// Actor sends transactions on behalf of a single signer.
type Actor struct {
	bc     *Blockchain
	signer string
	gas    uint64
}

// NewActor returns actor signing with the given account. Function calls
// attach maximum transaction gas.
func NewActor(bc *Blockchain, signer string) *Actor {
	return &Actor{bc: bc, signer: signer, gas: bc.cfg.MaxTxGas}
}

// Sender returns the signer account.
func (a *Actor) Sender() string { return a.signer }

// Chain returns the blockchain the actor works with.
func (a *Actor) Chain() *Blockchain { return a.bc }

// Send sends a transaction with the given actions. The error is not nil if
// the transaction is rejected or its first receipt fails.
func (a *Actor) Send(receiver string, actions ...Action) (*TxResult, error) {
	res, err := a.bc.SendTransaction(Transaction{
		Signer:   a.signer,
		Receiver: receiver,
		Actions:  actions,
	})
	if err != nil {
		return nil, err
	}
	if res.Outcome.Err != nil {
		return res, fmt.Errorf("transaction %s failed: %w", res.Hash, res.Outcome.Err)
	}
	return res, nil
}

// Call invokes a contract method with the deposit attached.
func (a *Actor) Call(contract, method string, args any, deposit uint128.Uint128) (*TxResult, error) {
	return a.Send(contract, FunctionCall(method, args, deposit, a.gas))
}

// View calls a view method decoding the result into res. A nil res ignores
// the result.
func (a *Actor) View(contract, method string, args any, res any) error {
	b, err := a.bc.View(contract, method, EncodeArgs(args))
	if err != nil {
		return err
	}
	if res == nil || len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, res); err != nil {
		return fmt.Errorf("decode %s.%s result: %w", contract, method, err)
	}
	return nil
}

// Settle executes all pending receipts.
func (a *Actor) Settle() error {
	return a.bc.Settle()
}
