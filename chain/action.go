package chain

import (
	"encoding/json"
	"fmt"

	"github.com/gaze-network/uint128"
)

// ActionKind enumerates receipt actions.
type ActionKind byte

const (
	ActionCreateAccount ActionKind = iota + 1
	ActionTransfer
	ActionDeployContract
	ActionFunctionCall
	ActionDeleteAccount
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreateAccount:
		return "CreateAccount"
	case ActionTransfer:
		return "Transfer"
	case ActionDeployContract:
		return "DeployContract"
	case ActionFunctionCall:
		return "FunctionCall"
	case ActionDeleteAccount:
		return "DeleteAccount"
	default:
		return fmt.Sprintf("ActionKind(%d)", byte(k))
	}
}

// Action is a single step of a receipt. All actions of a receipt either
// succeed together or are rolled back together.
type Action struct {
	Kind ActionKind
	// Deposit is the transferred amount or the deposit attached to a call.
	Deposit uint128.Uint128
	// Code is the contract to deploy.
	Code *Code
	// Method, Args and Gas describe a function call.
	Method string
	Args   []byte
	Gas    uint64
	// Beneficiary receives the balance of a deleted account.
	Beneficiary string
}

// CreateAccount creates the receiver account.
func CreateAccount() Action { return Action{Kind: ActionCreateAccount} }

// Transfer moves amount to the receiver.
func Transfer(amount uint128.Uint128) Action {
	return Action{Kind: ActionTransfer, Deposit: amount}
}

// DeployContract sets receiver code.
func DeployContract(code *Code) Action {
	return Action{Kind: ActionDeployContract, Code: code}
}

// DeleteAccount removes the receiver sending its balance to beneficiary.
func DeleteAccount(beneficiary string) Action {
	return Action{Kind: ActionDeleteAccount, Beneficiary: beneficiary}
}

// FunctionCall calls receiver method with JSON-encoded args. It panics if
// args can't be encoded.
func FunctionCall(method string, args any, deposit uint128.Uint128, gas uint64) Action {
	return Action{
		Kind:    ActionFunctionCall,
		Method:  method,
		Args:    EncodeArgs(args),
		Deposit: deposit,
		Gas:     gas,
	}
}

// EncodeArgs serializes call arguments, nil stays empty.
func EncodeArgs(args any) []byte {
	switch v := args.(type) {
	case nil:
		return nil
	case []byte:
		return v
	case json.RawMessage:
		return v
	}
	b, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrInvalidArguments, err))
	}
	return b
}

// attached returns native value carried by the action.
func (a Action) attached() uint128.Uint128 {
	switch a.Kind {
	case ActionTransfer, ActionFunctionCall:
		return a.Deposit
	default:
		return uint128.Zero
	}
}

func totalDeposit(actions []Action) (uint128.Uint128, error) {
	total := uint128.Zero
	for _, a := range actions {
		var overflow bool
		total, overflow = total.AddOverflow(a.attached())
		if overflow {
			return uint128.Zero, ErrBalanceOverflow
		}
	}
	return total, nil
}

func totalGas(actions []Action) uint64 {
	var g uint64
	for _, a := range actions {
		if a.Kind == ActionFunctionCall {
			g += a.Gas
		}
	}
	return g
}
