package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/edison-alpha/intic-id-sub002/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLedger struct {
	balanceCalls int
	ticketCalls  int
	statusCalls  int
	ticket       *ledger.Ticket
}

func (c *countingLedger) Balance(ctx context.Context, principal string) (uint64, error) {
	c.balanceCalls++
	return 4200, nil
}

func (c *countingLedger) Ticket(ctx context.Context, contract ledger.ContractRef, tokenID uint64) (*ledger.Ticket, error) {
	c.ticketCalls++
	if c.ticket == nil {
		return nil, ledger.ErrTicketNotFound
	}
	return c.ticket, nil
}

func (c *countingLedger) TransactionStatus(ctx context.Context, txID string) (*ledger.TxStatus, error) {
	c.statusCalls++
	return &ledger.TxStatus{TxID: txID, State: ledger.TxStatePending}, nil
}

func (c *countingLedger) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	return "0xfeed", nil
}

func TestCachedLedgerServesBalanceFromCache(t *testing.T) {
	c, mock := testCache(t)
	inner := &countingLedger{}
	cl := NewLedger(inner, c)

	key := BalanceKey(principal)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte("4200"), 30*time.Second).SetVal("OK")
	mock.ExpectGet(key).SetVal("4200")

	balance, err := cl.Balance(context.Background(), principal)
	require.NoError(t, err)
	assert.Equal(t, uint64(4200), balance)

	balance, err = cl.Balance(context.Background(), principal)
	require.NoError(t, err)
	assert.Equal(t, uint64(4200), balance)
	assert.Equal(t, 1, inner.balanceCalls)
}

func TestCachedLedgerRestoresContractRef(t *testing.T) {
	c, mock := testCache(t)
	contract := ledger.ContractRef{Address: "ST000", Name: "event-1"}
	ticket := &ledger.Ticket{TokenID: 42, Owner: principal, EventDate: "2026-09-12", EventTime: "20:00"}
	inner := &countingLedger{ticket: ticket}
	cl := NewLedger(inner, c)

	payload, err := json.Marshal(ticket)
	require.NoError(t, err)

	key := TicketKey(contract, 42)
	mock.ExpectGet(key).SetVal(string(payload))

	got, err := cl.Ticket(context.Background(), contract, 42)
	require.NoError(t, err)
	// The contract ref is not part of the cached document; the decorator
	// has to put it back.
	assert.Equal(t, contract, got.Contract)
	assert.Equal(t, uint64(42), got.TokenID)
	assert.Zero(t, inner.ticketCalls)
}

func TestCachedLedgerMissingTicketIsNotCached(t *testing.T) {
	c, mock := testCache(t)
	inner := &countingLedger{}
	cl := NewLedger(inner, c)

	contract := ledger.ContractRef{Address: "ST000", Name: "event-1"}
	key := TicketKey(contract, 7)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectGet(key).RedisNil()

	_, err := cl.Ticket(context.Background(), contract, 7)
	assert.ErrorIs(t, err, ledger.ErrTicketNotFound)

	_, err = cl.Ticket(context.Background(), contract, 7)
	assert.ErrorIs(t, err, ledger.ErrTicketNotFound)
	assert.Equal(t, 2, inner.ticketCalls)
}

func TestCachedLedgerStatusBypassesCache(t *testing.T) {
	c, _ := testCache(t)
	inner := &countingLedger{}
	cl := NewLedger(inner, c)

	// Confirmation polling must always see live ledger state.
	for i := 0; i < 3; i++ {
		_, err := cl.TransactionStatus(context.Background(), "0xabc")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.statusCalls)
}

func TestCachedLedgerFreshBypassesCache(t *testing.T) {
	c, _ := testCache(t)
	inner := &countingLedger{}
	cl := NewLedger(inner, c)

	balance, err := cl.Fresh().Balance(context.Background(), principal)
	require.NoError(t, err)
	assert.Equal(t, uint64(4200), balance)
	assert.Equal(t, 1, inner.balanceCalls)
}
