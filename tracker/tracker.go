package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/edison-alpha/intic-id-sub002/cache"
	c "github.com/edison-alpha/intic-id-sub002/context"
	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/monitoring"
)

// Tracker drives every broadcast transaction to a terminal outcome by
// polling the indexer at a fixed interval with a capped attempt budget. The
// fixed cadence is deliberate backpressure: indexer load stays bounded no
// matter how many transactions are in flight, at the cost of confirmation
// latency.
type Tracker struct {
	ledger      ledger.Ledger
	cache       *cache.Cache
	interval    time.Duration
	maxAttempts int

	mu      sync.Mutex
	handles map[string]*Handle
}

func New(l ledger.Ledger, ch *cache.Cache, interval time.Duration, maxAttempts int) *Tracker {
	return &Tracker{
		ledger:      l,
		cache:       ch,
		interval:    interval,
		maxAttempts: maxAttempts,
		handles:     make(map[string]*Handle),
	}
}

// Track starts a poll loop for ptx and returns immediately. The loop runs on
// a detached context carrying the caller's correlation id, so the caller's
// request finishing does not stop confirmation; only Cancel does.
func (t *Tracker) Track(ctx context.Context, ptx *PendingTransaction) *Handle {
	h := &Handle{
		ptx:       ptx,
		done:      make(chan struct{}),
		cancelled: make(chan struct{}),
		status:    StatusPending,
	}

	t.mu.Lock()
	t.handles[ptx.TxID] = h
	t.mu.Unlock()

	go t.poll(c.NewContext(c.GetContextValue(ctx, c.ContextKeyCorrelationID)), h)
	return h
}

// Lookup returns the resident handle for txID, if any.
func (t *Tracker) Lookup(txID string) (*Handle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.handles[txID]
	return h, ok
}

// Forget drops a handle from the registry once its caller has observed the
// terminal state. A forgotten transaction is re-derivable from the ledger.
func (t *Tracker) Forget(txID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handles, txID)
}

func (t *Tracker) poll(ctx context.Context, h *Handle) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	ptx := h.ptx
	for attempts := 0; attempts < t.maxAttempts; {
		select {
		case <-h.cancelled:
			// Abandoned, not terminal: the ledger may still apply the
			// transaction later, but nobody is watching and no
			// invalidation will happen on its behalf.
			h.finish(StatusAbandoned, ledger.ReasonNone)
			logger.Infof(ctx, "poll: tracking of %s abandoned after caller cancel", ptx.TxID)
			return
		case <-ticker.C:
		}

		attempts++
		monitoring.TrackPoll(string(ptx.Kind))

		status, err := t.ledger.TransactionStatus(ctx, ptx.TxID)
		if err != nil {
			// Transient indexer trouble is not an abort. The attempt is
			// still spent, so a dead indexer folds into TimedOut.
			logger.Warnf(ctx, "poll: attempt %d for %s: %+v", attempts, ptx.TxID, err)
			continue
		}

		switch status.State {
		case ledger.TxStateSuccess:
			if err := t.cache.InvalidateGroup(ctx, ptx.AffectedKeys); err != nil {
				logger.Errorf(ctx, "poll: unable to invalidate after confirm of %s: %+v", ptx.TxID, err)
			}
			h.finish(StatusConfirmed, ledger.ReasonNone)
			monitoring.TrackOutcome(string(ptx.Kind), StatusConfirmed.String())
			logger.Infof(ctx, "poll: transaction %s confirmed after %d attempts", ptx.TxID, attempts)
			return
		case ledger.TxStateAborted:
			// The ledger never applied the change, so the domain entities
			// are untouched; only the sender's balance may have moved (a
			// fee can be spent on an aborted transaction).
			t.invalidateSenderBalance(ctx, ptx)
			h.finish(StatusAborted, status.Reason)
			monitoring.TrackOutcome(string(ptx.Kind), StatusAborted.String())
			logger.Infof(ctx, "poll: transaction %s aborted: %s", ptx.TxID, status.Reason)
			return
		}
	}

	t.invalidateSenderBalance(ctx, ptx)
	h.finish(StatusTimedOut, ledger.ReasonNone)
	monitoring.TrackOutcome(string(ptx.Kind), StatusTimedOut.String())
	logger.Warnf(ctx, "poll: confirmation budget exhausted for %s; it may still land", ptx.TxID)
}

func (t *Tracker) invalidateSenderBalance(ctx context.Context, ptx *PendingTransaction) {
	if ptx.Sender == "" {
		return
	}
	if err := t.cache.Invalidate(ctx, cache.BalanceKey(ptx.Sender)); err != nil {
		logger.Errorf(ctx, "poll: unable to invalidate balance of %s: %+v", ptx.Sender, err)
	}
}

// Handle is the caller's view of one tracked transaction.
type Handle struct {
	ptx *PendingTransaction

	done      chan struct{}
	cancelled chan struct{}

	mu         sync.Mutex
	cancelOnce sync.Once
	status     Status
	reason     ledger.AbortReason
}

// Transaction returns the tracked record.
func (h *Handle) Transaction() *PendingTransaction {
	return h.ptx
}

// Done is closed once the handle reaches any final state, Abandoned
// included.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result snapshots the current state.
func (h *Handle) Result() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Result{Status: h.status, Reason: h.reason}
}

// Cancel stops further polling. Best effort: it does not undo anything the
// ledger may still apply, and late confirmations are silently dropped.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		close(h.cancelled)
	})
}

func (h *Handle) finish(status Status, reason ledger.AbortReason) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != StatusPending {
		return
	}
	h.status = status
	h.reason = reason
	close(h.done)
}
