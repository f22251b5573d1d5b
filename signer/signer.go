package signer

import (
	"context"

	"github.com/edison-alpha/intic-id-sub002/ledger"
)

// ContractCall is one state-changing call against a ticket contract, built
// by the coordinator and handed to a signer for signing and broadcast. No
// key material ever enters this repository; the signer is an external
// collaborator.
type ContractCall struct {
	Contract ledger.ContractRef `json:"contract"`
	Function string             `json:"function"`
	Args     []string           `json:"args"`
	Sender   string             `json:"sender"`
}

type ResultKind int

const (
	// Submitted means the transaction was broadcast and TxID is set.
	Submitted ResultKind = iota
	// Cancelled means the wallet owner declined to sign.
	Cancelled
	// Failed means signing or broadcast failed before the transaction
	// reached the ledger; nothing was applied and nothing is pending.
	Failed
)

// Result replaces the wallet SDK's onFinish/onCancel callback pair with a
// value consumed by ordinary sequential control flow.
type Result struct {
	Kind   ResultKind
	TxID   string
	Reason string
}

type Signer interface {
	SignAndBroadcast(ctx context.Context, call ContractCall) Result
}
