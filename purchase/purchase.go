package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edison-alpha/intic-id-sub002/cache"
	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/preflight"
	"github.com/edison-alpha/intic-id-sub002/session"
	"github.com/edison-alpha/intic-id-sub002/signer"
	"github.com/edison-alpha/intic-id-sub002/tracker"
)

var (
	ErrSubmissionFailed = errors.New("purchase: submission failed")
	ErrSigningCancelled = errors.New("purchase: signing cancelled")
)

const buyTicketFunction = "buy-ticket"

// Outcome is the result of a buy attempt. Handle is nil when the preflight
// found the buyer short; that is a classified answer, not an error.
type Outcome struct {
	Preflight *preflight.Result
	Handle    *tracker.Handle
}

// Service drives a ticket purchase end to end: affordability preflight,
// signer submission, then confirmation tracking. It shares the tracker with
// the check-in path, so both flows ride one state machine.
type Service struct {
	preflight *preflight.Checker
	tracker   *tracker.Tracker
}

func New(p *preflight.Checker, t *tracker.Tracker) *Service {
	return &Service{preflight: p, tracker: t}
}

// Buy mints one ticket of contract to the session's wallet at price
// micro-STX. An unreachable indexer during preflight is an error, never
// "insufficient".
func (s *Service) Buy(ctx context.Context, sess *session.Session, contract ledger.ContractRef, price uint64) (*Outcome, error) {
	check, err := s.preflight.Check(ctx, sess.Address, price, true)
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}
	if !check.Sufficient {
		logger.Infof(ctx, "buy: %s is %d short for a %d ticket", sess.Address, check.Shortfall, price)
		return &Outcome{Preflight: check}, nil
	}

	call := signer.ContractCall{
		Contract: contract,
		Function: buyTicketFunction,
		Args:     []string{fmt.Sprintf("u%d", price)},
		Sender:   sess.Address,
	}

	result := sess.Signer.SignAndBroadcast(ctx, call)
	switch result.Kind {
	case signer.Cancelled:
		return nil, ErrSigningCancelled
	case signer.Failed:
		return nil, fmt.Errorf("%w: %s", ErrSubmissionFailed, result.Reason)
	}

	ptx := &tracker.PendingTransaction{
		TxID:        result.TxID,
		Kind:        tracker.KindPurchase,
		Sender:      sess.Address,
		SubmittedAt: time.Now().UTC(),
		AffectedKeys: []string{
			cache.BalanceKey(sess.Address),
			cache.AnalyticsKey(contract),
		},
	}

	logger.Infof(ctx, "buy: %s purchasing from %s via %s", sess.Address, contract, result.TxID)
	return &Outcome{Preflight: check, Handle: s.tracker.Track(ctx, ptx)}, nil
}
