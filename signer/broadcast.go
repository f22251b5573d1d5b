package signer

import (
	"context"
	"errors"
	"fmt"

	"github.com/edison-alpha/intic-id-sub002/ledger"
)

// ErrSigningCancelled is returned by a SignFunc when the key holder declines.
var ErrSigningCancelled = errors.New("signer: signing cancelled")

// SignFunc produces a signed raw transaction for a contract call.
type SignFunc func(ctx context.Context, call ContractCall) ([]byte, error)

// BroadcastSigner pairs an external signing step with broadcast through the
// ledger client, for deployments where the operator holds a signing service
// that returns raw transaction blobs rather than submitting them itself.
type BroadcastSigner struct {
	sign   SignFunc
	ledger ledger.Ledger
}

func NewBroadcastSigner(sign SignFunc, l ledger.Ledger) *BroadcastSigner {
	return &BroadcastSigner{sign: sign, ledger: l}
}

func (s *BroadcastSigner) SignAndBroadcast(ctx context.Context, call ContractCall) Result {
	rawTx, err := s.sign(ctx, call)
	if err != nil {
		if errors.Is(err, ErrSigningCancelled) {
			return Result{Kind: Cancelled}
		}
		return Result{Kind: Failed, Reason: fmt.Sprintf("signing failed: %s", err)}
	}

	txID, err := s.ledger.Broadcast(ctx, rawTx)
	if err != nil {
		return Result{Kind: Failed, Reason: fmt.Sprintf("broadcast failed: %s", err)}
	}
	return Result{Kind: Submitted, TxID: txID}
}
