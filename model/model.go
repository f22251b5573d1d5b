package model

import "time"

// Request envelopes. Every API request nests its payload under "data".

type PreflightRequest struct {
	Data *PreflightQuery `json:"data"`
}

type PreflightQuery struct {
	Address       string `json:"address"`
	Amount        uint64 `json:"amount"`
	SkipFeeBuffer bool   `json:"skip_fee_buffer,omitempty"`
}

type ScanRequest struct {
	Data *Scan `json:"data"`
}

// Scan is one QR read at the venue door: the scanned check-in point payload
// plus the token id from the attendee's session.
type Scan struct {
	Payload string `json:"payload"`
	TokenID uint64 `json:"token_id"`
}

type CommitRequest struct {
	Data *Commit `json:"data"`
}

type Commit struct {
	Contract string `json:"contract"`
	TokenID  uint64 `json:"token_id"`
	Address  string `json:"address"`
}

type PurchaseRequest struct {
	Data *PurchaseOrder `json:"data"`
}

type PurchaseOrder struct {
	Contract string `json:"contract"`
	Price    uint64 `json:"price"`
	Address  string `json:"address"`
}

// Response payload shapes.

type PreflightResult struct {
	Sufficient bool   `json:"sufficient"`
	Balance    uint64 `json:"balance"`
	Required   uint64 `json:"required"`
	Shortfall  uint64 `json:"shortfall,omitempty"`
}

type CheckInResult struct {
	Contract string `json:"contract"`
	TokenID  uint64 `json:"token_id"`
	Decision string `json:"decision"`
	Owner    string `json:"owner,omitempty"`
}

type Transaction struct {
	TxID        string    `json:"tx_id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Purchase struct {
	Preflight   *PreflightResult `json:"preflight"`
	Transaction *Transaction     `json:"transaction,omitempty"`
}

type CheckInAttempt struct {
	ID        string    `json:"id"`
	Contract  string    `json:"contract"`
	TokenID   uint64    `json:"token_id"`
	Owner     string    `json:"owner,omitempty"`
	Decision  string    `json:"decision"`
	Timestamp time.Time `json:"timestamp"`
}

type ClassStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

type CacheStats map[string]ClassStats
