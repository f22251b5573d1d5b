package checkin

import (
	"sync"
	"time"

	"github.com/edison-alpha/intic-id-sub002/ledger"
)

// Attempt is one scan-to-decision event, kept for the venue's audit trail.
// Attempts never touch the ticket itself; only a confirmed commit does that.
type Attempt struct {
	ID        string             `json:"id"`
	Contract  ledger.ContractRef `json:"contract"`
	TokenID   uint64             `json:"token_id"`
	Owner     string             `json:"owner,omitempty"`
	Decision  Decision           `json:"decision"`
	Timestamp time.Time          `json:"timestamp"`
}

// History is the session-local, append-only list of check-in attempts.
type History struct {
	mu       sync.Mutex
	attempts []Attempt
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(a Attempt) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attempts = append(h.attempts, a)
}

// List returns a copy, newest first.
func (h *History) List() []Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Attempt, len(h.attempts))
	for i, a := range h.attempts {
		out[len(h.attempts)-1-i] = a
	}
	return out
}
