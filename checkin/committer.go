package checkin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/edison-alpha/intic-id-sub002/cache"
	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/session"
	"github.com/edison-alpha/intic-id-sub002/signer"
	"github.com/edison-alpha/intic-id-sub002/tracker"
)

var (
	// ErrSubmissionFailed means signing or broadcast failed before the
	// ledger saw anything. Nothing is pending; the staff member retries
	// from scratch.
	ErrSubmissionFailed = errors.New("checkin: submission failed")

	// ErrSigningCancelled means the wallet owner declined.
	ErrSigningCancelled = errors.New("checkin: signing cancelled")

	// ErrCommitInFlight means a commit for this ticket is already pending.
	ErrCommitInFlight = errors.New("checkin: a commit for this ticket is already pending")
)

const useTicketFunction = "use-ticket"

// Committer submits the on-chain "mark used" call and hands the resulting
// transaction to the confirmation tracker.
//
// It does not re-validate: re-reading the ticket here would race the ledger
// anyway. The contract's own already-used guard is the arbiter; a lost race
// surfaces through the tracker as an abort. The in-flight set below is only
// a courtesy so one venue terminal does not double-pay fees on a double tap.
type Committer struct {
	tracker *tracker.Tracker

	inFlight inFlightSet
}

func NewCommitter(t *tracker.Tracker) *Committer {
	return &Committer{
		tracker:  t,
		inFlight: newInFlightSet(),
	}
}

// Commit flips the used flag for tokenID on the ledger. It returns as soon
// as the transaction is broadcast; confirmation is the returned handle's
// business.
func (c *Committer) Commit(ctx context.Context, sess *session.Session, contract ledger.ContractRef, tokenID uint64) (*tracker.Handle, error) {
	key := cache.TicketKey(contract, tokenID)
	if !c.inFlight.add(key) {
		return nil, ErrCommitInFlight
	}

	call := signer.ContractCall{
		Contract: contract,
		Function: useTicketFunction,
		Args:     []string{fmt.Sprintf("u%d", tokenID)},
		Sender:   sess.Address,
	}

	result := sess.Signer.SignAndBroadcast(ctx, call)
	switch result.Kind {
	case signer.Cancelled:
		c.inFlight.remove(key)
		return nil, ErrSigningCancelled
	case signer.Failed:
		c.inFlight.remove(key)
		return nil, fmt.Errorf("%w: %s", ErrSubmissionFailed, result.Reason)
	}

	ptx := &tracker.PendingTransaction{
		TxID:        result.TxID,
		Kind:        tracker.KindCheckIn,
		Sender:      sess.Address,
		SubmittedAt: time.Now().UTC(),
		AffectedKeys: []string{
			cache.TicketKey(contract, tokenID),
			cache.AnalyticsKey(contract),
		},
	}

	logger.Infof(ctx, "commit: marking token %d of %s used via %s", tokenID, contract, result.TxID)
	handle := c.tracker.Track(ctx, ptx)

	go func() {
		<-handle.Done()
		c.inFlight.remove(key)
	}()

	return handle, nil
}

type inFlightSet struct {
	mu   *sync.Mutex
	keys map[string]struct{}
}

func newInFlightSet() inFlightSet {
	return inFlightSet{mu: &sync.Mutex{}, keys: make(map[string]struct{})}
}

func (s inFlightSet) add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s inFlightSet) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}
