package chain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"go.uber.org/zap"
)

// execution collects the effects of a receipt until it's committed.
type execution struct {
	receipt  *Receipt
	st       *state
	outcome  *Outcome
	promises []*Promise
	returned *Promise
}

// execute applies receipt actions atomically, materialises promises of a
// successful receipt, refunds deposits of a failed one and delivers the
// result to waiting receipts.
func (bc *Blockchain) execute(r *Receipt) *Outcome {
	cache := storage.NewMemCachedStore(bc.store)
	ex := &execution{
		receipt: r,
		st:      newState(cache, &bc.cfg, bc.codes),
		outcome: &Outcome{
			ReceiptID:   r.ID,
			TxHash:      r.TxHash,
			Predecessor: r.Predecessor,
			Receiver:    r.Receiver,
		},
	}
	bc.executed++

	err := bc.applyActions(ex)
	if err == nil {
		err = ex.st.checkStake(r.Receiver)
	}
	if err == nil {
		err = ex.st.flush()
	}
	if err == nil {
		_, err = cache.Persist()
	}

	out := ex.outcome
	if err != nil {
		out.Err = err
		out.Value = nil
		out.Events = nil
		bc.refund(r, out)
	} else {
		bc.commitPromises(ex)
	}

	bc.outcomes[r.ID] = out
	bc.txs[r.TxHash] = append(bc.txs[r.TxHash], r.ID)

	fields := []zap.Field{
		zap.String("receipt", r.ID),
		zap.String("predecessor", r.Predecessor),
		zap.String("receiver", r.Receiver),
		zap.String("gas", GasString(out.GasBurnt)),
	}
	if err != nil {
		bc.log.Debug("receipt failed", append(fields, zap.Error(err))...)
	} else {
		bc.log.Debug("receipt executed", append(fields, zap.Int("spawned", len(out.Spawned)))...)
	}

	if ex.returned == nil || err != nil {
		bc.deliver(r.ID, out.Result)
	}
	return out
}

func (bc *Blockchain) applyActions(ex *execution) error {
	r := ex.receipt
	created := false
	for i, a := range r.Actions {
		var err error
		switch a.Kind {
		case ActionCreateAccount:
			err = bc.createAccount(ex)
			created = err == nil
		case ActionTransfer:
			err = ex.st.credit(r.Receiver, a.Deposit)
		case ActionDeployContract:
			if !created && r.Predecessor != r.Receiver {
				err = fmt.Errorf("%w: %s can't deploy to %s", ErrActorNoPermission, r.Predecessor, r.Receiver)
				break
			}
			err = ex.st.deploy(r.Receiver, a.Code)
		case ActionFunctionCall:
			err = bc.functionCall(ex, a, i == len(r.Actions)-1)
		case ActionDeleteAccount:
			err = bc.deleteAccount(ex, a)
		default:
			err = fmt.Errorf("unknown action %s", a.Kind)
		}
		if err != nil {
			return fmt.Errorf("action #%d (%s): %w", i, a.Kind, err)
		}
	}
	return nil
}

func (bc *Blockchain) createAccount(ex *execution) error {
	r := ex.receipt
	if err := ValidateAccountID(r.Receiver); err != nil {
		return err
	}
	if ex.st.exists(r.Receiver) {
		return fmt.Errorf("%w: %s", ErrAccountExists, r.Receiver)
	}
	if r.Predecessor != SystemAccount && !IsDirectSubAccount(r.Receiver, r.Predecessor) {
		return fmt.Errorf("%w: %s can't create %s", ErrCreateAccountNotAllowed, r.Predecessor, r.Receiver)
	}
	_, err := ex.st.createAccount(r.Receiver, uint128.Zero)
	return err
}

func (bc *Blockchain) deleteAccount(ex *execution, a Action) error {
	r := ex.receipt
	if r.Predecessor != r.Receiver {
		return fmt.Errorf("%w: %s can't delete %s", ErrActorNoPermission, r.Predecessor, r.Receiver)
	}
	acc, err := ex.st.account(r.Receiver)
	if err != nil {
		return err
	}
	if err := ValidateAccountID(a.Beneficiary); err != nil {
		return err
	}
	balance := acc.Balance
	if err := ex.st.deleteAccount(r.Receiver); err != nil {
		return err
	}
	if !balance.IsZero() {
		ic := &Context{bc: bc, st: ex.st, receipt: r}
		p := &Promise{
			id:       hashID([]byte(r.ID), []byte("delete"), []byte(a.Beneficiary)),
			receiver: a.Beneficiary,
			actions:  []Action{Transfer(balance)},
			ic:       ic,
		}
		ex.promises = append(ex.promises, p)
	}
	return nil
}

func (bc *Blockchain) functionCall(ex *execution, a Action, last bool) error {
	r := ex.receipt
	acc, err := ex.st.account(r.Receiver)
	if err != nil {
		return err
	}
	code, ok := ex.st.code(acc)
	if !ok {
		return fmt.Errorf("%w: %s", ErrContractNotDeployed, r.Receiver)
	}
	m, ok := code.Method(a.Method)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrMethodNotFound, r.Receiver, a.Method)
	}
	if !a.Deposit.IsZero() && !m.payable {
		return fmt.Errorf("%w: %s.%s", ErrDepositNotAccepted, r.Receiver, a.Method)
	}
	if m.private && r.Predecessor != r.Receiver {
		return fmt.Errorf("%w: %s.%s called by %s", ErrPrivateMethod, r.Receiver, a.Method, r.Predecessor)
	}
	if err := ex.st.credit(r.Receiver, a.Deposit); err != nil {
		return err
	}

	ic := &Context{
		bc:      bc,
		st:      ex.st,
		receipt: r,
		deposit: a.Deposit,
		prepaid: a.Gas,
		inputs:  r.inputResults(),
	}
	res := bc.invoke(ic, m, a.Args)
	ex.outcome.Logs = append(ex.outcome.Logs, ic.logs...)
	ex.outcome.Events = append(ex.outcome.Events, ic.events...)
	ex.outcome.GasBurnt += ic.used
	if res.Err != nil {
		return res.Err
	}
	ex.promises = append(ex.promises, ic.promises...)
	if last {
		ex.outcome.Value = res.Value
		ex.returned = ic.returned
	}
	return nil
}

// invoke runs the method recovering contract panics into errors.
func (bc *Blockchain) invoke(ic *Context, m Method, args []byte) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{Err: panicError(rec)}
		}
	}()
	ic.UseGas(bc.cfg.CallBaseGas)
	v := m.invoke(ic, args)
	if p, ok := v.(*Promise); ok {
		if p != nil {
			if p.ic != ic {
				panic(fmt.Errorf("%w: returned promise belongs to another call", ErrInvalidPromise))
			}
			ic.returned = p
		}
		return Result{}
	}
	if v == nil {
		return Result{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Result{Err: fmt.Errorf("marshal %s result: %w", m.Name, err)}
	}
	return Result{Value: b}
}

func panicError(rec any) error {
	switch v := rec.(type) {
	case error:
		return v
	case string:
		return fmt.Errorf("%w: %s", ErrExecution, v)
	default:
		return fmt.Errorf("%w: %v", ErrExecution, v)
	}
}

// refund returns deposits attached to a failed receipt to its predecessor.
// Deposits of refund receipts are lost.
func (bc *Blockchain) refund(r *Receipt, out *Outcome) {
	amount, err := totalDeposit(r.Actions)
	if err != nil || amount.IsZero() {
		return
	}
	if r.IsRefund() {
		bc.log.Warn("refund failed, deposit is burnt",
			zap.String("receiver", r.Receiver),
			zap.Stringer("amount", amount))
		return
	}
	rf := &Receipt{
		ID:          hashID([]byte(r.ID), []byte("refund")),
		TxHash:      r.TxHash,
		Predecessor: SystemAccount,
		Receiver:    r.Predecessor,
		Signer:      r.Signer,
		Actions:     []Action{Transfer(amount)},
	}
	out.Spawned = append(out.Spawned, rf.ID)
	bc.queue.PushBack(rf)
}

// commitPromises turns promises of a successful receipt into receipts.
func (bc *Blockchain) commitPromises(ex *execution) {
	r := ex.receipt
	for _, p := range ex.promises {
		nr := &Receipt{
			ID:          p.id,
			TxHash:      r.TxHash,
			Predecessor: r.Receiver,
			Receiver:    p.receiver,
			Signer:      r.Signer,
			Actions:     p.actions,
		}
		for i, d := range p.deps {
			nr.Inputs = append(nr.Inputs, d.id)
			bc.waiters[d.id] = append(bc.waiters[d.id], waiter{receipt: nr.ID, index: i})
		}
		ex.outcome.Spawned = append(ex.outcome.Spawned, nr.ID)
		if len(p.deps) == 0 {
			bc.queue.PushBack(nr)
			continue
		}
		nr.ready = make([]*Result, len(p.deps))
		nr.missing = len(p.deps)
		bc.postponed[nr.ID] = nr
	}
	if ex.returned != nil {
		// Receipts waiting for this one now wait for the returned promise.
		id := ex.returned.id
		bc.waiters[id] = append(bc.waiters[id], bc.waiters[r.ID]...)
		delete(bc.waiters, r.ID)
	}
}

// deliver passes the result of a finished receipt to its waiters and
// queues the ones having all inputs.
func (bc *Blockchain) deliver(id string, res Result) {
	ws := bc.waiters[id]
	delete(bc.waiters, id)
	for _, w := range ws {
		nr, ok := bc.postponed[w.receipt]
		if !ok {
			continue
		}
		res := res
		nr.ready[w.index] = &res
		nr.missing--
		if nr.missing == 0 {
			delete(bc.postponed, nr.ID)
			bc.queue.PushBack(nr)
		}
	}
}

func (r *Receipt) inputResults() []Result {
	res := make([]Result, len(r.ready))
	for i, v := range r.ready {
		if v != nil {
			res[i] = *v
		}
	}
	return res
}

// IsFailure checks whether err is a receipt failure caused by target.
func IsFailure(out *Outcome, target error) bool {
	return out != nil && errors.Is(out.Err, target)
}
