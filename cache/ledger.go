package cache

import (
	"context"

	"github.com/edison-alpha/intic-id-sub002/ledger"
)

// CachedLedger decorates a ledger client with read-through caching for its
// read queries. Transaction status and broadcast always go straight through:
// confirmation polling has to see live ledger state.
//
// The cache is convenience, not truth. Flows that are about to write on the
// strength of a read (the check-in commit path) should use Fresh instead.
type CachedLedger struct {
	inner ledger.Ledger
	cache *Cache
}

func NewLedger(inner ledger.Ledger, c *Cache) *CachedLedger {
	return &CachedLedger{inner: inner, cache: c}
}

// Fresh returns the undecorated client for guaranteed-fresh reads.
func (l *CachedLedger) Fresh() ledger.Ledger {
	return l.inner
}

func (l *CachedLedger) Balance(ctx context.Context, principal string) (uint64, error) {
	var balance uint64
	err := l.cache.Read(ctx, BalanceKey(principal), ClassBalance, &balance, func(ctx context.Context) (interface{}, error) {
		return l.inner.Balance(ctx, principal)
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (l *CachedLedger) Ticket(ctx context.Context, contract ledger.ContractRef, tokenID uint64) (*ledger.Ticket, error) {
	var ticket ledger.Ticket
	err := l.cache.Read(ctx, TicketKey(contract, tokenID), ClassTicket, &ticket, func(ctx context.Context) (interface{}, error) {
		return l.inner.Ticket(ctx, contract, tokenID)
	})
	if err != nil {
		return nil, err
	}
	ticket.Contract = contract
	return &ticket, nil
}

func (l *CachedLedger) TransactionStatus(ctx context.Context, txID string) (*ledger.TxStatus, error) {
	return l.inner.TransactionStatus(ctx, txID)
}

func (l *CachedLedger) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	return l.inner.Broadcast(ctx, rawTx)
}
