package preflight

import (
	"context"
	"fmt"

	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
)

// Result reports whether an account can afford a purchase. Shortfall is only
// meaningful when Sufficient is false.
type Result struct {
	Sufficient bool   `json:"sufficient"`
	Balance    uint64 `json:"balance"`
	Required   uint64 `json:"required"`
	Shortfall  uint64 `json:"shortfall,omitempty"`
}

// Checker answers affordability questions against the ledger. It never
// mutates anything; an unreachable indexer is surfaced as an error, which
// callers must treat as "unknown" rather than "insufficient".
type Checker struct {
	ledger    ledger.Ledger
	feeBuffer uint64
}

// New returns a Checker. feeBuffer is a conservative worst-case network fee
// in micro-STX added on top of the asked amount.
func New(l ledger.Ledger, feeBuffer uint64) *Checker {
	return &Checker{ledger: l, feeBuffer: feeBuffer}
}

func (c *Checker) Check(ctx context.Context, principal string, amount uint64, includeFeeBuffer bool) (*Result, error) {
	balance, err := c.ledger.Balance(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("check: unable to read balance of %s: %w", principal, err)
	}

	required := amount
	if includeFeeBuffer {
		required += c.feeBuffer
	}

	result := &Result{
		Sufficient: balance >= required,
		Balance:    balance,
		Required:   required,
	}
	if !result.Sufficient {
		result.Shortfall = required - balance
	}

	logger.Debugf(ctx, "check: principal %s balance %d required %d sufficient %t", principal, balance, required, result.Sufficient)
	return result, nil
}
