package nftrecv

import (
	"encoding/json"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
)

// Messages controlling the receiver.
const (
	// MsgReturn makes nft_on_transfer ask to return the token.
	MsgReturn = "return"
	// MsgPanic makes nft_on_transfer fail.
	MsgPanic = "panic"
)

// Call is the last received hook call.
type Call struct {
	Method   string `json:"method"`
	TokenID  string `json:"token_id"`
	SenderID string `json:"sender_id,omitempty"`
	OwnerID  string `json:"owner_id,omitempty"`
	Msg      string `json:"msg"`
}

var key = []byte("key")

var code = chain.NewCode("nftrecv", nil,
	chain.Func(nonfungible.MethodOnTransfer, OnTransfer),
	chain.Proc(nonfungible.MethodOnApprove, OnApprove),
	chain.Getter("get", Get),
)

// Code returns receiver contract code.
func Code() *chain.Code { return code }

func OnTransfer(ic *chain.Context, args nonfungible.OnTransferArgs) bool {
	if args.Msg == MsgPanic {
		panic("receiver failure")
	}
	put(ic, Call{
		Method:   nonfungible.MethodOnTransfer,
		TokenID:  args.TokenID,
		SenderID: args.SenderID,
		OwnerID:  args.PreviousOwnerID,
		Msg:      args.Msg,
	})
	return args.Msg == MsgReturn
}

func OnApprove(ic *chain.Context, args nonfungible.OnApproveArgs) {
	put(ic, Call{
		Method:  nonfungible.MethodOnApprove,
		TokenID: args.TokenID,
		OwnerID: args.OwnerID,
		Msg:     args.Msg,
	})
}

func Get(ic *chain.Context) Call {
	var c Call
	if val := ic.Get(key); val != nil {
		_ = json.Unmarshal(val, &c)
	}
	return c
}

func put(ic *chain.Context, c Call) {
	data, _ := json.Marshal(c)
	ic.Put(key, data)
}
