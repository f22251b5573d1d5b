package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Ledger is the read/write surface of the chain indexer. Reads return the
// indexer's current view, which may lag the chain tip; writes broadcast an
// already-signed transaction and return its id.
type Ledger interface {
	Balance(ctx context.Context, principal string) (uint64, error)
	Ticket(ctx context.Context, contract ContractRef, tokenID uint64) (*Ticket, error)
	TransactionStatus(ctx context.Context, txID string) (*TxStatus, error)
	Broadcast(ctx context.Context, rawTx []byte) (string, error)
}

// ContractRef identifies a deployed ticket contract.
type ContractRef struct {
	Address string
	Name    string
}

func (c ContractRef) String() string {
	return fmt.Sprintf("%s.%s", c.Address, c.Name)
}

// ParseContractRef splits a "<address>.<name>" contract id.
func ParseContractRef(s string) (ContractRef, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ContractRef{}, fmt.Errorf("parseContractRef: malformed contract id: %q", s)
	}
	return ContractRef{Address: parts[0], Name: parts[1]}, nil
}

// Ticket is the ledger's record of one minted admission NFT. The local copy
// is always a possibly-stale snapshot; the ledger owns the real thing.
type Ticket struct {
	TokenID   uint64      `json:"token_id"`
	Contract  ContractRef `json:"-"`
	Owner     string      `json:"owner"`
	Used      bool        `json:"used"`
	EventDate string      `json:"event_date"`
	EventTime string      `json:"event_time"`
}

// EventStart combines the ticket's wall-clock date and time fields.
func (t *Ticket) EventStart() (time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", t.EventDate, t.EventTime), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("eventStart: malformed event date/time on token %d: %w", t.TokenID, err)
	}
	return start, nil
}
