package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/monitoring"
)

const (
	txStatusPending              = "pending"
	txStatusSuccess              = "success"
	txStatusAbortByResponse      = "abort_by_response"
	txStatusAbortByPostCondition = "abort_by_post_condition"
)

type client struct {
	apiAddress string
	httpClient *http.Client
}

// New returns a Ledger backed by the HTTP indexer at apiAddress.
func New(apiAddress string) Ledger {
	return &client{
		apiAddress: apiAddress,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type balancesResponse struct {
	STX *struct {
		Balance string `json:"balance"`
	} `json:"stx"`
}

func (c *client) Balance(ctx context.Context, principal string) (uint64, error) {
	start := time.Now()
	var doc balancesResponse
	err := c.getJSON(ctx, fmt.Sprintf("%s/extended/v1/address/%s/balances", c.apiAddress, principal), &doc)
	monitoring.ObserveIndexerRequest("balance", time.Since(start), err == nil)
	if err != nil {
		return 0, &NetworkError{Op: "balance", Err: err}
	}

	// An account with no token entry simply has nothing; the indexer omits
	// the stx block for addresses it has never seen.
	if doc.STX == nil || doc.STX.Balance == "" {
		return 0, nil
	}

	balance, err := strconv.ParseUint(doc.STX.Balance, 10, 64)
	if err != nil {
		return 0, &NetworkError{Op: "balance", Err: fmt.Errorf("malformed balance %q: %w", doc.STX.Balance, err)}
	}
	return balance, nil
}

type ticketResponse struct {
	TokenID   uint64 `json:"token_id"`
	Owner     string `json:"owner"`
	Used      bool   `json:"used"`
	EventDate string `json:"event_date"`
	EventTime string `json:"event_time"`
}

func (c *client) Ticket(ctx context.Context, contract ContractRef, tokenID uint64) (*Ticket, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/extended/v1/tickets/%s/%d", c.apiAddress, contract, tokenID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Op: "ticket", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	monitoring.ObserveIndexerRequest("ticket", time.Since(start), err == nil)
	if err != nil {
		return nil, &NetworkError{Op: "ticket", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTicketNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: "ticket", Err: fmt.Errorf("indexer answered %d", resp.StatusCode)}
	}

	var doc ticketResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &NetworkError{Op: "ticket", Err: fmt.Errorf("malformed ticket document: %w", err)}
	}

	return &Ticket{
		TokenID:   doc.TokenID,
		Contract:  contract,
		Owner:     doc.Owner,
		Used:      doc.Used,
		EventDate: doc.EventDate,
		EventTime: doc.EventTime,
	}, nil
}

type txResponse struct {
	TxID     string `json:"tx_id"`
	TxStatus string `json:"tx_status"`
	TxResult *struct {
		Repr string `json:"repr"`
	} `json:"tx_result"`
}

func (c *client) TransactionStatus(ctx context.Context, txID string) (*TxStatus, error) {
	start := time.Now()
	var doc txResponse
	err := c.getJSON(ctx, fmt.Sprintf("%s/extended/v1/tx/%s", c.apiAddress, txID), &doc)
	monitoring.ObserveIndexerRequest("transaction_status", time.Since(start), err == nil)
	if err != nil {
		return nil, &NetworkError{Op: "transactionStatus", Err: err}
	}

	status := &TxStatus{TxID: txID}
	switch doc.TxStatus {
	case txStatusSuccess:
		status.State = TxStateSuccess
	case txStatusAbortByResponse, txStatusAbortByPostCondition:
		status.State = TxStateAborted
		repr := ""
		if doc.TxResult != nil {
			repr = doc.TxResult.Repr
		}
		status.Reason = decodeAbortReason(doc.TxStatus, repr)
	default:
		// The indexer reports several mempool states; all of them are
		// "not settled yet" as far as the coordinator is concerned.
		status.State = TxStatePending
	}
	return status, nil
}

func (c *client) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/v2/transactions", c.apiAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(rawTx))
	if err != nil {
		return "", &NetworkError{Op: "broadcast", Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	monitoring.ObserveIndexerRequest("broadcast", time.Since(start), err == nil)
	if err != nil {
		return "", &NetworkError{Op: "broadcast", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &NetworkError{Op: "broadcast", Err: fmt.Errorf("indexer answered %d", resp.StatusCode)}
	}

	var txID string
	if err := json.NewDecoder(resp.Body).Decode(&txID); err != nil {
		return "", &NetworkError{Op: "broadcast", Err: fmt.Errorf("malformed broadcast response: %w", err)}
	}

	logger.Infof(ctx, "broadcast: submitted transaction %s", txID)
	return txID, nil
}

func (c *client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("indexer answered %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response document: %w", err)
	}
	return nil
}
