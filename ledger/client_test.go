package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const principal = "ST3AM1A56AK2C1XAFJ4115ZSV26EB49BVQ10MGCS0"

func TestBalanceParsesSTXEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/extended/v1/address/%s/balances", principal), r.URL.Path)
		fmt.Fprint(w, `{"stx":{"balance":"123456"},"fungible_tokens":{}}`)
	}))
	defer srv.Close()

	balance, err := New(srv.URL).Balance(context.Background(), principal)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), balance)
}

func TestBalanceMissingEntryMeansZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"fungible_tokens":{}}`)
	}))
	defer srv.Close()

	balance, err := New(srv.URL).Balance(context.Background(), principal)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestBalanceMalformedDocumentIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stx":{"balance":"not-a-number"}}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Balance(context.Background(), principal)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestBalanceIndexerDownIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL).Balance(context.Background(), principal)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestTicketRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extended/v1/tickets/ST000.event-1/42", r.URL.Path)
		fmt.Fprint(w, `{"token_id":42,"owner":"`+principal+`","used":false,"event_date":"2026-09-12","event_time":"20:00"}`)
	}))
	defer srv.Close()

	contract := ContractRef{Address: "ST000", Name: "event-1"}
	ticket, err := New(srv.URL).Ticket(context.Background(), contract, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), ticket.TokenID)
	assert.Equal(t, principal, ticket.Owner)
	assert.False(t, ticket.Used)
	assert.Equal(t, contract, ticket.Contract)

	start, err := ticket.EventStart()
	require.NoError(t, err)
	assert.Equal(t, 2026, start.Year())
	assert.Equal(t, 20, start.Hour())
}

func TestTicketNotFoundIsDistinctFromNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ticket(context.Background(), ContractRef{Address: "ST000", Name: "event-1"}, 7)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.False(t, IsNetworkError(err))
}

func TestTransactionStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		state  TxState
		reason AbortReason
	}{
		{"success", `{"tx_status":"success"}`, TxStateSuccess, ReasonNone},
		{"pending", `{"tx_status":"pending"}`, TxStatePending, ReasonNone},
		{"mempool state", `{"tx_status":"dropped_stale_garbage_collect"}`, TxStatePending, ReasonNone},
		{"already used", `{"tx_status":"abort_by_response","tx_result":{"repr":"(err u101)"}}`, TxStateAborted, ReasonTicketAlreadyUsed},
		{"sold out", `{"tx_status":"abort_by_response","tx_result":{"repr":"(err u100)"}}`, TxStateAborted, ReasonSoldOut},
		{"unknown code", `{"tx_status":"abort_by_response","tx_result":{"repr":"(err u999)"}}`, TxStateAborted, ReasonUnknown},
		{"prose result", `{"tx_status":"abort_by_response","tx_result":{"repr":"something exploded"}}`, TxStateAborted, ReasonUnknown},
		{"post condition", `{"tx_status":"abort_by_post_condition"}`, TxStateAborted, ReasonPostCondition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/extended/v1/tx/0xabc123", r.URL.Path)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			status, err := New(srv.URL).TransactionStatus(context.Background(), "0xabc123")
			require.NoError(t, err)
			assert.Equal(t, tc.state, status.State)
			assert.Equal(t, tc.reason, status.Reason)
		})
	}
}

func TestUnknownAbortReasonGetsGenericMessage(t *testing.T) {
	assert.Equal(t, "The transaction was rejected by the ledger", ReasonUnknown.Message())
	assert.Equal(t, "This ticket has already been used", ReasonTicketAlreadyUsed.Message())
}

func TestBroadcastReturnsTxID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/transactions", r.URL.Path)
		fmt.Fprint(w, `"0xabc123"`)
	}))
	defer srv.Close()

	txID, err := New(srv.URL).Broadcast(context.Background(), []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", txID)
}

func TestParseContractRef(t *testing.T) {
	contract, err := ParseContractRef("ST000.event-1")
	require.NoError(t, err)
	assert.Equal(t, "ST000", contract.Address)
	assert.Equal(t, "event-1", contract.Name)
	assert.Equal(t, "ST000.event-1", contract.String())

	for _, bad := range []string{"", "ST000", ".event-1", "ST000."} {
		_, err := ParseContractRef(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
